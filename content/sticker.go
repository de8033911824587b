package content

type StickerMetadata struct {
	STKID    string `json:"STKID"`
	STKPKGID string `json:"STKPKGID"`
	STKVER   string `json:"STKVER"`
}

func (m StickerMetadata) valid() bool {
	return m.STKID != "" && m.STKPKGID != "" && m.STKVER != ""
}

type Sticker struct {
	base
	metadata StickerMetadata
}

func NewSticker(m StickerMetadata) *Sticker {
	s := &Sticker{}
	s.SetMetadata(m)
	return s
}

func (*Sticker) ContentType() Type { return TypeSticker }

func (s *Sticker) Metadata() StickerMetadata { return s.metadata }

// SetMetadata is all or nothing: a partial metadata set is ignored.
func (s *Sticker) SetMetadata(m StickerMetadata) {
	if m.valid() {
		s.metadata = m
	}
}

func (s *Sticker) MarshalJSON() ([]byte, error) {
	return marshal(struct {
		header
		ContentMetadata StickerMetadata `json:"contentMetadata"`
	}{
		header:          newHeader(TypeSticker),
		ContentMetadata: s.metadata,
	})
}
