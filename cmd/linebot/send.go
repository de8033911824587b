package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/garrettladley/linebot/content"
	"github.com/garrettladley/linebot/event"
)

var (
	errNoRecipients = errors.New("at least one --to is required")
	errNoContent    = errors.New("nothing to send: pass --text and/or --image")
	errNoPreview    = errors.New("--image requires --preview")
)

type sendOptions struct {
	to       []string
	text     string
	image    string
	preview  string
	notified int
}

// buildEvent turns flags into a Single event, or a Multiple when more than one
// content is given.
func buildEvent(opts sendOptions) (event.Event, error) {
	if len(opts.to) == 0 {
		return nil, errNoRecipients
	}

	var contents []content.Content
	if opts.text != "" {
		contents = append(contents, content.NewText(opts.text))
	}
	if opts.image != "" {
		if opts.preview == "" {
			return nil, errNoPreview
		}
		contents = append(contents, content.NewImage(opts.image, opts.preview))
	}

	switch len(contents) {
	case 0:
		return nil, errNoContent
	case 1:
		return event.NewSingle(opts.to, contents[0]), nil
	default:
		return event.NewMultiple(opts.to, contents, opts.notified), nil
	}
}

func sendCmd() *cobra.Command {
	var opts sendOptions

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send a message to one or more users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := buildEvent(opts)
			if err != nil {
				return err
			}

			client, err := newClient()
			if err != nil {
				return err
			}

			result, err := client.Post(cmd.Context(), e)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringSliceVar(&opts.to, "to", nil, "recipient mid (repeatable, at most 150 are sent)")
	cmd.Flags().StringVar(&opts.text, "text", "", "text message")
	cmd.Flags().StringVar(&opts.image, "image", "", "image URL")
	cmd.Flags().StringVar(&opts.preview, "preview", "", "image preview URL")
	cmd.Flags().IntVar(&opts.notified, "notified", 0, "index of the message that triggers the push notification")

	return cmd
}
