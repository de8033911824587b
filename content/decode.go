package content

import (
	"errors"
	"fmt"

	go_json "github.com/goccy/go-json"
)

var ErrUnknownContentType = errors.New("unknown content type")

type wireContent struct {
	ContentType        Type   `json:"contentType"`
	Text               string `json:"text"`
	OriginalContentURL string `json:"originalContentUrl"`
	PreviewImageURL    string `json:"previewImageUrl"`
	Location           *Place `json:"location"`
	ContentMetadata    struct {
		AUDLEN string `json:"AUDLEN"`
		StickerMetadata
	} `json:"contentMetadata"`
}

// Unmarshal decodes the wire form of a content payload into its variant.
// Field values go through the same setters as hand-built content.
func Unmarshal(data []byte) (Content, error) {
	var w wireContent
	if err := go_json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("unmarshal content: %w", err)
	}

	switch w.ContentType {
	case TypeText:
		return NewText(w.Text), nil
	case TypeImage:
		return NewImage(w.OriginalContentURL, w.PreviewImageURL), nil
	case TypeVideo:
		return NewVideo(w.OriginalContentURL, w.PreviewImageURL), nil
	case TypeAudio:
		return NewAudio(w.OriginalContentURL, w.ContentMetadata.AUDLEN), nil
	case TypeLocation:
		l := &Location{}
		if w.Location != nil {
			p := *w.Location
			if p.Title == "" {
				p.Title = w.Text
			}
			l.SetPlace(p)
		}
		return l, nil
	case TypeSticker:
		return NewSticker(w.ContentMetadata.StickerMetadata), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownContentType, w.ContentType)
	}
}
