package models

import "time"

// Property is a published rental listing, owned by the user that submitted it.
type Property struct {
	ID      string
	OwnerID string

	Title       string
	Description string

	PropertyType string
	BedCount     int
	Kitchens     int
	Bathrooms    int
	Balconies    int

	Amenities map[string]bool
	Rules     map[string]bool

	Address   string
	City      string
	State     string
	ZipCode   string
	Latitude  float64
	Longitude float64

	Rent            int64
	SecurityDeposit int64
	MaintenanceFee  int64

	Photos []string

	OwnerName  string
	OwnerPhone string
	OwnerEmail string

	IsAvailable   bool
	AvailableFrom string

	CreatedAt time.Time
}

// Location returns the display location for list views ("City, State" when
// both are known).
func (p *Property) Location() string {
	switch {
	case p.City != "" && p.State != "":
		return p.City + ", " + p.State
	case p.City != "":
		return p.City
	default:
		return p.State
	}
}

// AmenityList returns the ids of the enabled amenities, for list views.
func (p *Property) AmenityList() []string {
	out := make([]string, 0, len(p.Amenities))
	for id, on := range p.Amenities {
		if on {
			out = append(out, id)
		}
	}
	return out
}

// CoverPhoto returns the first photo key, or "" when the listing has none.
func (p *Property) CoverPhoto() string {
	if len(p.Photos) == 0 {
		return ""
	}
	return p.Photos[0]
}
