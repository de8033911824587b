package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/garrettladley/linebot/internal/config"
	"github.com/garrettladley/linebot/receiver"
)

func signCmd() *cobra.Command {
	var (
		file   string
		secret string
	)

	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Print the signature header value for a webhook body",
		Long:  "Computes base64(HMAC-SHA256(body, channel secret)), the value the receiver expects in X-Line-ChannelSignature. Reads stdin when --file is - or unset.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if secret == "" {
				cfg, err := config.Read()
				if err != nil {
					return fmt.Errorf("failed to read config: %w", err)
				}
				secret = cfg.LINE.Secret
			}
			if secret == "" {
				return config.ErrMissingChannelSecret
			}

			body, err := readBody(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), receiver.Sign(secret, body))
			return err
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "-", "file holding the request body")
	cmd.Flags().StringVar(&secret, "secret", "", "channel secret (defaults to LINE_CHANNEL_SECRET)")

	return cmd
}

func readBody(stdin io.Reader, file string) ([]byte, error) {
	if file == "" || file == "-" {
		body, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return body, nil
	}

	body, err := os.ReadFile(file)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("body file %s does not exist", file)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read body file: %w", err)
	}
	return body, nil
}
