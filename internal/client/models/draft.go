package models

// PropertyDraft is the in-progress, not-yet-submitted listing assembled
// across the add-property wizard steps. Every field is optional until the
// step that owns it has run; downstream steps tolerate absent upstream
// fields. The draft is serialized as JSON at every step boundary, so all
// fields must round-trip losslessly.
type PropertyDraft struct {
	// Unit classification.
	PropertyType string `json:"propertyType,omitempty"`
	BedCount     int    `json:"bedCount,omitempty"`

	// Room counts.
	Kitchens  int `json:"kitchens"`
	Bathrooms int `json:"bathrooms"`
	Balconies int `json:"balconies"`

	// Amenity and house-rule flags, keyed by option id (e.g. "wifi").
	Amenities map[string]bool `json:"amenities"`
	Rules     map[string]bool `json:"rules"`

	// Location.
	Address   string  `json:"address,omitempty"`
	City      string  `json:"city,omitempty"`
	State     string  `json:"state,omitempty"`
	ZipCode   string  `json:"zipCode,omitempty"`
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`

	// Pricing.
	Rent            int64 `json:"rent,omitempty"`
	SecurityDeposit int64 `json:"securityDeposit,omitempty"`
	MaintenanceFee  int64 `json:"maintenanceFee,omitempty"`

	// Photo references (upload URLs), in display order.
	Photos []string `json:"photos"`

	// Listing text.
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`

	// Contact info.
	OwnerName  string `json:"ownerName,omitempty"`
	OwnerPhone string `json:"ownerPhone,omitempty"`
	OwnerEmail string `json:"ownerEmail,omitempty"`

	// Availability.
	IsAvailable   bool   `json:"isAvailable"`
	AvailableFrom string `json:"availableFrom,omitempty"` // RFC 3339 date
}

// NewPropertyDraft returns a draft with the documented defaults: empty
// amenity and rule maps, an empty photo list, and available-now status.
func NewPropertyDraft() PropertyDraft {
	return PropertyDraft{
		Amenities:   map[string]bool{},
		Rules:       map[string]bool{},
		Photos:      []string{},
		IsAvailable: true,
	}
}

// CloneAmenities returns a copy of the draft's amenity map so steps can
// mutate their own view without aliasing the incoming draft.
func (d PropertyDraft) CloneAmenities() map[string]bool {
	out := make(map[string]bool, len(d.Amenities))
	for k, v := range d.Amenities {
		out[k] = v
	}
	return out
}

// CloneRules returns a copy of the draft's house-rule map.
func (d PropertyDraft) CloneRules() map[string]bool {
	out := make(map[string]bool, len(d.Rules))
	for k, v := range d.Rules {
		out[k] = v
	}
	return out
}
