// Package content models the message payloads that can be delivered through
// the LINE BOT trial API.
//
// Every variant is constructed without error. Invalid input to a constructor or
// setter is ignored and the previous (or zero) value is kept.
package content

import (
	"fmt"

	go_json "github.com/goccy/go-json"
)

type Type int

const (
	TypeBase     Type = 0
	TypeText     Type = 1
	TypeImage    Type = 2
	TypeVideo    Type = 3
	TypeAudio    Type = 4
	TypeLocation Type = 7
	TypeSticker  Type = 8
)

func (t Type) String() string {
	switch t {
	case TypeBase:
		return "base"
	case TypeText:
		return "text"
	case TypeImage:
		return "image"
	case TypeVideo:
		return "video"
	case TypeAudio:
		return "audio"
	case TypeLocation:
		return "location"
	case TypeSticker:
		return "sticker"
	default:
		return fmt.Sprintf("type(%d)", int(t))
	}
}

// ToTypeUser is the only recipient type the trial API accepts.
const ToTypeUser = 1

type Content interface {
	ContentType() Type
	ToType() int
	MarshalJSON() ([]byte, error)

	isContent()
}

var (
	_ Content = (*Text)(nil)
	_ Content = (*Image)(nil)
	_ Content = (*Video)(nil)
	_ Content = (*Audio)(nil)
	_ Content = (*Location)(nil)
	_ Content = (*Sticker)(nil)
)

// header is the leading pair of fields every variant emits.
type header struct {
	ContentType Type `json:"contentType"`
	ToType      int  `json:"toType"`
}

func newHeader(t Type) header {
	return header{ContentType: t, ToType: ToTypeUser}
}

type base struct{}

func (base) ToType() int { return ToTypeUser }
func (base) isContent()  {}

func marshal(v any) ([]byte, error) {
	data, err := go_json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal content: %w", err)
	}
	return data, nil
}
