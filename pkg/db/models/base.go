package models

import "github.com/google/uuid"

// ensureID assigns a fresh id when the caller did not provide one.
func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

// GeoPoint is an optional latitude/longitude pair stored as two nullable columns.
type GeoPoint struct {
	Lat *float64 `gorm:"column:lat"`
	Lng *float64 `gorm:"column:lng"`
}

// Known reports whether both coordinates are present.
func (g GeoPoint) Known() bool {
	return g.Lat != nil && g.Lng != nil
}
