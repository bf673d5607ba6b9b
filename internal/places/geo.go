package places

import "github.com/golang/geo/s2"

const earthRadiusMeters = 6371010.0

// Nearest: origin 에서 가장 가까운 레코드와 거리(m)를 반환합니다. 좌표가 있는 레코드가 없으면 ok 는 false 입니다.
func Nearest(origin s2.LatLng, records []Record) (nearest Record, meters float64, ok bool) {
	for _, record := range records {
		location, valid := record.Location()
		if !valid {
			continue
		}
		distance := origin.Distance(location).Radians() * earthRadiusMeters
		if !ok || distance < meters {
			nearest, meters, ok = record, distance, true
		}
	}
	return nearest, meters, ok
}
