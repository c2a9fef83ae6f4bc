package models

type Profile struct {
	BaseModel
	UserID   string `gorm:"not null;uniqueIndex"`
	FullName string
	Bio      string `gorm:"type:text"`

	// Location is the free-text place name; Latitude/Longitude are the
	// coordinates the spatial index is fed from. A user may have no location
	// at all, in which case the pointers are nil and the proximity matcher
	// rejects requests from them.
	Location  string
	Latitude  *float64 `gorm:"index:idx_profile_location"`
	Longitude *float64 `gorm:"index:idx_profile_location"`

	// Geohash is the precision-7 bucket derived from the coordinates,
	// kept alongside the GEO index entry.
	Geohash string `gorm:"type:varchar(12)"`

	ProfileImageURL string
}

// HasLocation reports whether both coordinates are set.
func (p *Profile) HasLocation() bool {
	return p != nil && p.Latitude != nil && p.Longitude != nil
}
