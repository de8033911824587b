package content

import "math"

// Place describes a location payload. Title doubles as the message text.
type Place struct {
	Title     string  `json:"title"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address,omitempty"`
}

func (p Place) valid() bool {
	if p.Title == "" {
		return false
	}
	if math.IsNaN(p.Latitude) || p.Latitude < -90 || p.Latitude > 90 {
		return false
	}
	if math.IsNaN(p.Longitude) || p.Longitude < -180 || p.Longitude > 180 {
		return false
	}
	return true
}

// Location reuses Text for its title so the title obeys the same length rule.
type Location struct {
	base
	title     Text
	latitude  float64
	longitude float64
	address   string
}

func NewLocation(p Place) *Location {
	l := &Location{}
	l.SetPlace(p)
	return l
}

func (*Location) ContentType() Type { return TypeLocation }

func (l *Location) Place() Place {
	return Place{
		Title:     l.title.Text(),
		Latitude:  l.latitude,
		Longitude: l.longitude,
		Address:   l.address,
	}
}

// SetPlace replaces the whole location. An invalid place is ignored.
func (l *Location) SetPlace(p Place) {
	if !p.valid() {
		return
	}
	l.title.SetText(p.Title)
	l.latitude = p.Latitude
	l.longitude = p.Longitude
	l.address = p.Address
}

func (l *Location) MarshalJSON() ([]byte, error) {
	return marshal(struct {
		header
		Text     string `json:"text"`
		Location Place  `json:"location"`
	}{
		header:   newHeader(TypeLocation),
		Text:     l.title.Text(),
		Location: l.Place(),
	})
}
