package models

// Property is a published listing summary as returned by the backend and as
// stored in the favorites list and the local listings cache.
type Property struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Price        int64    `json:"price"`
	Location     string   `json:"location"`
	PropertyType string   `json:"propertyType"`
	ImageURL     string   `json:"imageUrl"`
	Amenities    []string `json:"amenities"`
}
