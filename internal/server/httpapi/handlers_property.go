package httpapi

import (
	"net/http"

	"github.com/ashishkaushik/leazzy/internal/server/auth"
	"github.com/ashishkaushik/leazzy/internal/server/models"
)

// propertyRequest is the submitted listing as assembled by the client's
// add-property wizard.
type propertyRequest struct {
	PropertyType string `json:"propertyType"`
	BedCount     int    `json:"bedCount"`

	Kitchens  int `json:"kitchens"`
	Bathrooms int `json:"bathrooms"`
	Balconies int `json:"balconies"`

	Amenities map[string]bool `json:"amenities"`
	Rules     map[string]bool `json:"rules"`

	Address   string  `json:"address"`
	City      string  `json:"city"`
	State     string  `json:"state"`
	ZipCode   string  `json:"zipCode"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`

	Rent            int64 `json:"rent"`
	SecurityDeposit int64 `json:"securityDeposit"`
	MaintenanceFee  int64 `json:"maintenanceFee"`

	Photos []string `json:"photos"`

	Title       string `json:"title"`
	Description string `json:"description"`

	OwnerName  string `json:"ownerName"`
	OwnerPhone string `json:"ownerPhone"`
	OwnerEmail string `json:"ownerEmail"`

	IsAvailable   bool   `json:"isAvailable"`
	AvailableFrom string `json:"availableFrom"`
}

func (in *propertyRequest) toModel() *models.Property {
	return &models.Property{
		PropertyType:    in.PropertyType,
		BedCount:        in.BedCount,
		Kitchens:        in.Kitchens,
		Bathrooms:       in.Bathrooms,
		Balconies:       in.Balconies,
		Amenities:       in.Amenities,
		Rules:           in.Rules,
		Address:         in.Address,
		City:            in.City,
		State:           in.State,
		ZipCode:         in.ZipCode,
		Latitude:        in.Latitude,
		Longitude:       in.Longitude,
		Rent:            in.Rent,
		SecurityDeposit: in.SecurityDeposit,
		MaintenanceFee:  in.MaintenanceFee,
		Photos:          in.Photos,
		Title:           in.Title,
		Description:     in.Description,
		OwnerName:       in.OwnerName,
		OwnerPhone:      in.OwnerPhone,
		OwnerEmail:      in.OwnerEmail,
		IsAvailable:     in.IsAvailable,
		AvailableFrom:   in.AvailableFrom,
	}
}

// propertyView is the listing summary served to catalogue clients.
type propertyView struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Price        int64    `json:"price"`
	Location     string   `json:"location"`
	PropertyType string   `json:"propertyType"`
	ImageURL     string   `json:"imageUrl"`
	Amenities    []string `json:"amenities"`
}

func (s *Server) toPropertyView(r *http.Request, p *models.Property) propertyView {
	imageURL := p.CoverPhoto()
	if imageURL != "" && s.photos != nil {
		// serve a downloadable URL; fall back to the raw key when signing
		// is unavailable
		if signed, err := s.photos.GetPresignedGetUrl(r.Context(), imageURL); err == nil {
			imageURL = signed
		}
	}

	return propertyView{
		ID:           p.ID,
		Title:        p.Title,
		Price:        p.Rent,
		Location:     p.Location(),
		PropertyType: p.PropertyType,
		ImageURL:     imageURL,
		Amenities:    p.AmenityList(),
	}
}

func (s *Server) handleListProperties(w http.ResponseWriter, r *http.Request) {
	list, err := s.properties.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	views := make([]propertyView, 0, len(list))
	for _, p := range list {
		views = append(views, s.toPropertyView(r, p))
	}
	writeJSON(w, http.StatusOK, map[string][]propertyView{"properties": views})
}

func (s *Server) handleCreateProperty(w http.ResponseWriter, r *http.Request) {
	var in propertyRequest
	if err := decodeJSON(r, &in); err != nil {
		respondError(w, err)
		return
	}

	id, err := s.properties.Create(r.Context(), auth.UserID(r.Context()), in.toModel())
	if err != nil {
		respondError(w, err)
		return
	}

	s.collector.RecordListingCreated()
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handlePresignPhoto(w http.ResponseWriter, r *http.Request) {
	key, url, err := s.photos.GetPresignedPutUrl(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	s.collector.RecordPhotoPresign()
	writeJSON(w, http.StatusOK, map[string]string{"key": key, "url": url})
}
