// Package wizard implements the add-property flow: an ordered sequence of
// steps that incrementally fill a property draft. Each step is a pure
// function over the draft: it validates the fields it owns and returns the
// incoming draft with only those fields overwritten. The driver owns
// sequencing and serializes the draft at every step boundary.
package wizard

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/ashishkaushik/leazzy/internal/client/models"
	"github.com/ashishkaushik/leazzy/internal/common"
)

// Step names, in wizard order.
const (
	StepUnitType       = "unit-type"
	StepRooms          = "rooms"
	StepAmenities      = "amenities"
	StepOtherAmenities = "other-amenities"
	StepLocation       = "location"
	StepPhotos         = "photos"
	StepPrice          = "price"
	StepRules          = "rules"
	StepAvailability   = "availability"
	StepContact        = "contact"
	StepSummary        = "summary"
)

// StepOrder is the fixed, linear step sequence. The final entry is the
// terminal summary/submit step.
var StepOrder = []string{
	StepUnitType,
	StepRooms,
	StepAmenities,
	StepOtherAmenities,
	StepLocation,
	StepPhotos,
	StepPrice,
	StepRules,
	StepAvailability,
	StepContact,
	StepSummary,
}

// Step applies one screen's worth of edits to the draft. Apply must leave
// every field the step does not own untouched. A gate failure returns a
// *ValidationError and the draft unchanged.
type Step interface {
	Name() string
	Apply(d models.PropertyDraft) (models.PropertyDraft, error)
}

// ValidationError reports an unmet step gate. It is never fatal: it only
// disables forward progress.
type ValidationError struct {
	Step  string
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s %s", e.Step, e.Field, e.Msg)
}

func (e *ValidationError) Is(target error) bool {
	return target == common.ErrorValidation
}

// Rent slider bounds (monthly, INR).
const (
	MinRent = 4000
	MaxRent = 25000
)

// MinPhotos is the minimum photo count required to leave the photos step.
const MinPhotos = 1

// UnitTypes are the selectable unit classifications with their bed counts.
var UnitTypes = map[string]int{
	"1 BHK":     1,
	"2 BHK":     2,
	"3 BHK":     3,
	"1RK or PG": 1,
}

// Amenity option ids owned by the amenities step.
var AmenityOptions = []string{"wifi", "ac", "fridge", "tv", "washingMachine"}

// Amenity option ids owned by the other-amenities step.
var OtherAmenityOptions = []string{"parking", "elevator", "security", "gym", "swimmingPool", "waterPurifier", "geyser"}

// House-rule option ids owned by the rules step.
var RuleOptions = []string{"petsAllowed", "smokingAllowed", "familiesOnly", "bachelorsAllowed"}

var emailRe = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// UnitTypeStep selects the unit classification.
type UnitTypeStep struct {
	PropertyType string
}

func (UnitTypeStep) Name() string { return StepUnitType }

func (s UnitTypeStep) Apply(d models.PropertyDraft) (models.PropertyDraft, error) {
	beds, ok := UnitTypes[s.PropertyType]
	if !ok {
		return d, &ValidationError{Step: StepUnitType, Field: "propertyType", Msg: "must be a known unit type"}
	}
	d.PropertyType = s.PropertyType
	d.BedCount = beds
	return d, nil
}

// RoomsStep sets the room counts.
type RoomsStep struct {
	Kitchens  int
	Bathrooms int
	Balconies int
}

func (RoomsStep) Name() string { return StepRooms }

func (s RoomsStep) Apply(d models.PropertyDraft) (models.PropertyDraft, error) {
	if s.Kitchens < 0 || s.Bathrooms < 0 || s.Balconies < 0 {
		return d, &ValidationError{Step: StepRooms, Field: "counts", Msg: "must be non-negative"}
	}
	d.Kitchens = s.Kitchens
	d.Bathrooms = s.Bathrooms
	d.Balconies = s.Balconies
	return d, nil
}

// AmenitiesStep toggles the comfort amenity flags. It owns only the ids in
// AmenityOptions; flags set by the other-amenities step pass through.
type AmenitiesStep struct {
	Selected map[string]bool
}

func (AmenitiesStep) Name() string { return StepAmenities }

func (s AmenitiesStep) Apply(d models.PropertyDraft) (models.PropertyDraft, error) {
	return applyFlags(d, StepAmenities, s.Selected, AmenityOptions, true)
}

// OtherAmenitiesStep toggles the building facility flags.
type OtherAmenitiesStep struct {
	Selected map[string]bool
}

func (OtherAmenitiesStep) Name() string { return StepOtherAmenities }

func (s OtherAmenitiesStep) Apply(d models.PropertyDraft) (models.PropertyDraft, error) {
	return applyFlags(d, StepOtherAmenities, s.Selected, OtherAmenityOptions, true)
}

// RulesStep toggles the house-rule flags.
type RulesStep struct {
	Selected map[string]bool
}

func (RulesStep) Name() string { return StepRules }

func (s RulesStep) Apply(d models.PropertyDraft) (models.PropertyDraft, error) {
	return applyFlags(d, StepRules, s.Selected, RuleOptions, false)
}

// applyFlags overwrites the owned flag ids in either the amenity or the rule
// map, leaving all other ids exactly as they came in.
func applyFlags(d models.PropertyDraft, step string, selected map[string]bool, owned []string, amenities bool) (models.PropertyDraft, error) {
	ownedSet := make(map[string]bool, len(owned))
	for _, id := range owned {
		ownedSet[id] = true
	}
	for id := range selected {
		if !ownedSet[id] {
			return d, &ValidationError{Step: step, Field: id, Msg: "is not a known option"}
		}
	}

	var m map[string]bool
	if amenities {
		m = d.CloneAmenities()
	} else {
		m = d.CloneRules()
	}
	for _, id := range owned {
		if selected[id] {
			m[id] = true
		} else {
			delete(m, id)
		}
	}
	if amenities {
		d.Amenities = m
	} else {
		d.Rules = m
	}
	return d, nil
}

// LocationStep sets the address and geocoordinates.
type LocationStep struct {
	Address   string
	City      string
	State     string
	ZipCode   string
	Latitude  float64
	Longitude float64
}

func (LocationStep) Name() string { return StepLocation }

func (s LocationStep) Apply(d models.PropertyDraft) (models.PropertyDraft, error) {
	switch {
	case strings.TrimSpace(s.Address) == "":
		return d, &ValidationError{Step: StepLocation, Field: "address", Msg: "is required"}
	case strings.TrimSpace(s.City) == "":
		return d, &ValidationError{Step: StepLocation, Field: "city", Msg: "is required"}
	case strings.TrimSpace(s.State) == "":
		return d, &ValidationError{Step: StepLocation, Field: "state", Msg: "is required"}
	case strings.TrimSpace(s.ZipCode) == "":
		return d, &ValidationError{Step: StepLocation, Field: "zipCode", Msg: "is required"}
	case s.Latitude == 0 || s.Longitude == 0:
		return d, &ValidationError{Step: StepLocation, Field: "coordinates", Msg: "must be set"}
	}
	d.Address = s.Address
	d.City = s.City
	d.State = s.State
	d.ZipCode = s.ZipCode
	d.Latitude = s.Latitude
	d.Longitude = s.Longitude
	return d, nil
}

// PhotosStep sets the ordered photo reference list.
type PhotosStep struct {
	Photos []string
}

func (PhotosStep) Name() string { return StepPhotos }

func (s PhotosStep) Apply(d models.PropertyDraft) (models.PropertyDraft, error) {
	if len(s.Photos) < MinPhotos {
		return d, &ValidationError{Step: StepPhotos, Field: "photos", Msg: fmt.Sprintf("need at least %d", MinPhotos)}
	}
	d.Photos = append([]string{}, s.Photos...)
	return d, nil
}

// PriceStep sets rent and security deposit. Rent is constrained to the
// slider range.
type PriceStep struct {
	Rent            int64
	SecurityDeposit int64
}

func (PriceStep) Name() string { return StepPrice }

func (s PriceStep) Apply(d models.PropertyDraft) (models.PropertyDraft, error) {
	if s.Rent < MinRent || s.Rent > MaxRent {
		return d, &ValidationError{Step: StepPrice, Field: "rent", Msg: fmt.Sprintf("must be between %d and %d", MinRent, MaxRent)}
	}
	if s.SecurityDeposit < 0 {
		return d, &ValidationError{Step: StepPrice, Field: "securityDeposit", Msg: "must be non-negative"}
	}
	d.Rent = s.Rent
	d.SecurityDeposit = s.SecurityDeposit
	return d, nil
}

// AvailabilityStep sets the availability flag and the optional future date.
type AvailabilityStep struct {
	IsAvailable   bool
	AvailableFrom string
}

func (AvailabilityStep) Name() string { return StepAvailability }

func (s AvailabilityStep) Apply(d models.PropertyDraft) (models.PropertyDraft, error) {
	if s.AvailableFrom != "" && !validDate(s.AvailableFrom) {
		return d, &ValidationError{Step: StepAvailability, Field: "availableFrom", Msg: "must be an RFC 3339 timestamp or YYYY-MM-DD date"}
	}
	if !s.IsAvailable && s.AvailableFrom == "" {
		return d, &ValidationError{Step: StepAvailability, Field: "availableFrom", Msg: "is required when not available now"}
	}
	d.IsAvailable = s.IsAvailable
	d.AvailableFrom = s.AvailableFrom
	return d, nil
}

func validDate(s string) bool {
	if _, err := time.Parse(time.RFC3339, s); err == nil {
		return true
	}
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// ContactStep sets the owner contact fields.
type ContactStep struct {
	OwnerName  string
	OwnerPhone string
	OwnerEmail string
}

func (ContactStep) Name() string { return StepContact }

func (s ContactStep) Apply(d models.PropertyDraft) (models.PropertyDraft, error) {
	switch {
	case strings.TrimSpace(s.OwnerName) == "":
		return d, &ValidationError{Step: StepContact, Field: "ownerName", Msg: "is required"}
	case len(strings.TrimSpace(s.OwnerPhone)) < 10:
		return d, &ValidationError{Step: StepContact, Field: "ownerPhone", Msg: "must have at least 10 digits"}
	case !emailRe.MatchString(s.OwnerEmail):
		return d, &ValidationError{Step: StepContact, Field: "ownerEmail", Msg: "must be a valid email address"}
	}
	d.OwnerName = s.OwnerName
	d.OwnerPhone = s.OwnerPhone
	d.OwnerEmail = s.OwnerEmail
	return d, nil
}
