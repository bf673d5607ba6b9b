package places

import (
	"fmt"
	"strconv"

	"github.com/golang/geo/s2"
)

// 장소 검색 제약입니다.
const (
	DefaultRadius = 5000
	MaxRadius     = 50000
	SearchType    = "hospital"
	SearchKeyword = "skin dermatology"
)

// Query: 주변 검색 한 번의 입력입니다. Radius 단위는 미터입니다.
type Query struct {
	Latitude  float64
	Longitude float64
	Radius    int
}

// Validate: 좌표 범위와 반경을 검사합니다.
func (q Query) Validate() error {
	if !q.Origin().IsValid() {
		return fmt.Errorf("coordinates out of range: %v,%v", q.Latitude, q.Longitude)
	}
	if q.Radius < 1 || q.Radius > MaxRadius {
		return fmt.Errorf("radius must be between 1 and %d: %d", MaxRadius, q.Radius)
	}
	return nil
}

// Origin: 검색 중심점입니다.
func (q Query) Origin() s2.LatLng {
	return s2.LatLngFromDegrees(q.Latitude, q.Longitude)
}

func (q Query) location() string {
	return strconv.FormatFloat(q.Latitude, 'f', -1, 64) + "," + strconv.FormatFloat(q.Longitude, 'f', -1, 64)
}
