package places

import (
	"bytes"
	"errors"

	"github.com/golang/geo/s2"
	"github.com/tidwall/gjson"
)

// Record: 장소 제공자가 돌려준 JSON 객체 하나입니다. 수정 없이 그대로 클라이언트에 전달됩니다.
type Record struct {
	raw []byte
}

// NewRecord: raw JSON 객체로 Record 를 만듭니다.
func NewRecord(raw []byte) (Record, error) {
	if !gjson.ValidBytes(raw) || !gjson.ParseBytes(raw).IsObject() {
		return Record{}, errors.New("place record must be a json object")
	}
	return Record{raw: bytes.Clone(raw)}, nil
}

// Name: name 필드입니다. 없으면 빈 문자열입니다.
func (r Record) Name() string {
	return gjson.GetBytes(r.raw, "name").String()
}

// Location: geometry.location 좌표입니다.
func (r Record) Location() (s2.LatLng, bool) {
	location := gjson.GetBytes(r.raw, "geometry.location")
	lat, lng := location.Get("lat"), location.Get("lng")
	if !lat.Exists() || !lng.Exists() {
		return s2.LatLng{}, false
	}
	ll := s2.LatLngFromDegrees(lat.Float(), lng.Float())
	return ll, ll.IsValid()
}

// Raw: 원본 바이트입니다.
func (r Record) Raw() []byte {
	return r.raw
}

func (r Record) MarshalJSON() ([]byte, error) {
	if len(r.raw) == 0 {
		return []byte("null"), nil
	}
	return r.raw, nil
}

func (r *Record) UnmarshalJSON(data []byte) error {
	r.raw = bytes.Clone(data)
	return nil
}
