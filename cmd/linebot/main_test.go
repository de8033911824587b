package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/garrettladley/linebot/content"
	"github.com/garrettladley/linebot/event"
	"github.com/google/go-cmp/cmp"
)

func TestBuildEvent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opts    sendOptions
		wantErr error
		check   func(t *testing.T, e event.Event)
	}{
		{
			name:    "no recipients",
			opts:    sendOptions{text: "hi"},
			wantErr: errNoRecipients,
		},
		{
			name:    "no content",
			opts:    sendOptions{to: []string{"u1"}},
			wantErr: errNoContent,
		},
		{
			name:    "image without preview",
			opts:    sendOptions{to: []string{"u1"}, image: "https://example.com/a.jpg"},
			wantErr: errNoPreview,
		},
		{
			name: "text only",
			opts: sendOptions{to: []string{"u1", "u2"}, text: "hi"},
			check: func(t *testing.T, e event.Event) {
				single, ok := e.(*event.Single)
				if !ok {
					t.Fatalf("got %T, want *event.Single", e)
				}
				if diff := cmp.Diff([]string{"u1", "u2"}, single.To()); diff != "" {
					t.Errorf("recipients mismatch (-want +got):\n%s", diff)
				}
				if text, ok := single.Content().(*content.Text); !ok || text.Text() != "hi" {
					t.Errorf("content = %#v", single.Content())
				}
			},
		},
		{
			name: "text and image",
			opts: sendOptions{
				to:       []string{"u1"},
				text:     "look",
				image:    "https://example.com/a.jpg",
				preview:  "https://example.com/a_240.jpg",
				notified: 5,
			},
			check: func(t *testing.T, e event.Event) {
				multiple, ok := e.(*event.Multiple)
				if !ok {
					t.Fatalf("got %T, want *event.Multiple", e)
				}
				messages := multiple.Messages()
				if len(messages) != 2 {
					t.Fatalf("len(messages) = %d, want 2", len(messages))
				}
				if messages[1].ContentType() != content.TypeImage {
					t.Errorf("second content type = %s, want image", messages[1].ContentType())
				}
				if got := multiple.MessageNotified(); got != 1 {
					t.Errorf("MessageNotified() = %d, want 1", got)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e, err := buildEvent(tt.opts)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.check(t, e)
		})
	}
}

const (
	signBody      = `{"result":[]}`
	signSecret    = "testsecret"
	wantSignature = "L+/S2oyqv2rUOilc6kqgMg0uIdqMk7gV4Thc2GXE3MQ="
)

func runRoot(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(t.Context())
	return out.String(), err
}

func TestSignCmd_Stdin(t *testing.T) {
	t.Parallel()

	out, err := runRoot(t, signBody, "sign", "--secret", signSecret)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := strings.TrimSpace(out); got != wantSignature {
		t.Errorf("signature = %q, want %q", got, wantSignature)
	}
}

func TestSignCmd_File(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "body.json")
	if err := os.WriteFile(path, []byte(signBody), 0o600); err != nil {
		t.Fatalf("write body: %v", err)
	}

	out, err := runRoot(t, "", "sign", "--secret", signSecret, "--file", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := strings.TrimSpace(out); got != wantSignature {
		t.Errorf("signature = %q, want %q", got, wantSignature)
	}
}

func TestSignCmd_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := runRoot(t, "", "sign", "--secret", signSecret, "--file", filepath.Join(t.TempDir(), "missing.json"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestSendCmd_ValidatesBeforeConfig(t *testing.T) {
	t.Parallel()

	_, err := runRoot(t, "", "send", "--text", "hi")
	if !errors.Is(err, errNoRecipients) {
		t.Fatalf("error = %v, want %v", err, errNoRecipients)
	}
}
