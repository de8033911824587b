package content

import "strconv"

// media holds the URL pair shared by image and video payloads.
type media struct {
	originalContentURL string
	previewImageURL    string
}

func (m *media) OriginalContentURL() string { return m.originalContentURL }
func (m *media) PreviewImageURL() string    { return m.previewImageURL }

func (m *media) SetOriginalContentURL(url string) { m.originalContentURL = url }
func (m *media) SetPreviewImageURL(url string)    { m.previewImageURL = url }

type mediaJSON struct {
	header
	OriginalContentURL string `json:"originalContentUrl"`
	PreviewImageURL    string `json:"previewImageUrl"`
}

type Image struct {
	base
	media
}

func NewImage(originalContentURL, previewImageURL string) *Image {
	return &Image{media: media{originalContentURL: originalContentURL, previewImageURL: previewImageURL}}
}

func (*Image) ContentType() Type { return TypeImage }

func (i *Image) MarshalJSON() ([]byte, error) {
	return marshal(mediaJSON{
		header:             newHeader(TypeImage),
		OriginalContentURL: i.originalContentURL,
		PreviewImageURL:    i.previewImageURL,
	})
}

type Video struct {
	base
	media
}

func NewVideo(originalContentURL, previewImageURL string) *Video {
	return &Video{media: media{originalContentURL: originalContentURL, previewImageURL: previewImageURL}}
}

func (*Video) ContentType() Type { return TypeVideo }

func (v *Video) MarshalJSON() ([]byte, error) {
	return marshal(mediaJSON{
		header:             newHeader(TypeVideo),
		OriginalContentURL: v.originalContentURL,
		PreviewImageURL:    v.previewImageURL,
	})
}

// Audio carries its duration in milliseconds as a decimal string, the form
// the platform expects under contentMetadata.AUDLEN.
type Audio struct {
	base
	originalContentURL string
	audlen             string
}

func NewAudio(originalContentURL, audlen string) *Audio {
	a := &Audio{originalContentURL: originalContentURL}
	a.SetAudioLength(audlen)
	return a
}

func (*Audio) ContentType() Type { return TypeAudio }

func (a *Audio) OriginalContentURL() string        { return a.originalContentURL }
func (a *Audio) SetOriginalContentURL(url string) { a.originalContentURL = url }

func (a *Audio) AudioLength() string { return a.audlen }

// SetAudioLength ignores values that are not a non-negative integer. Accepted
// values are stored exactly as given.
func (a *Audio) SetAudioLength(audlen string) {
	if _, err := strconv.ParseUint(audlen, 10, 64); err == nil {
		a.audlen = audlen
	}
}

type audioMetadata struct {
	AUDLEN string `json:"AUDLEN"`
}

func (a *Audio) MarshalJSON() ([]byte, error) {
	return marshal(struct {
		header
		OriginalContentURL string        `json:"originalContentUrl"`
		ContentMetadata    audioMetadata `json:"contentMetadata"`
	}{
		header:             newHeader(TypeAudio),
		OriginalContentURL: a.originalContentURL,
		ContentMetadata:    audioMetadata{AUDLEN: a.audlen},
	})
}
