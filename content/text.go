package content

import "unicode/utf8"

// MaxTextLength is the number of characters kept from an assigned text.
const MaxTextLength = 1024

type Text struct {
	base
	text string
}

func NewText(text string) *Text {
	t := &Text{}
	t.SetText(text)
	return t
}

func (*Text) ContentType() Type { return TypeText }

func (t *Text) Text() string { return t.text }

// SetText stores text truncated to MaxTextLength characters.
func (t *Text) SetText(text string) {
	t.text = truncate(text, MaxTextLength)
}

func (t *Text) MarshalJSON() ([]byte, error) {
	return marshal(struct {
		header
		Text string `json:"text"`
	}{
		header: newHeader(TypeText),
		Text:   t.text,
	})
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
