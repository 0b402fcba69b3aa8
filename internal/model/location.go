package model

// Location is a WGS84 point. Embedded rows store it as <prefix>lat / <prefix>lng.
type Location struct {
	Lat float64 `json:"lat" gorm:"column:lat;not null" validate:"latitude"`
	Lng float64 `json:"lng" gorm:"column:lng;not null" validate:"longitude"`
}

// Valid reports whether the point lies within latitude/longitude bounds.
// NaN is never valid.
func (l Location) Valid() bool {
	return l.Lat >= -90 && l.Lat <= 90 && l.Lng >= -180 && l.Lng <= 180
}

// Located is implemented by every entity the proximity filter can inspect
type Located interface {
	Point() Location
}
