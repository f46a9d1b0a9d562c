package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ashishkaushik/leazzy/internal/client/models"
	"github.com/ashishkaushik/leazzy/internal/client/wizard"
)

// unitTypeOptions fixes the display order of the selectable unit types.
var unitTypeOptions = []string{"1 BHK", "2 BHK", "3 BHK", "1RK or PG"}

// AddProperty runs the add-property wizard interactively. The flow is
// guarded: it requires an authenticated session with a verified email.
func (a *App) AddProperty(ctx context.Context) error {
	if !a.guardAllows("/add-property") {
		return nil
	}

	title, err := getSimpleText(a.reader, "Listing title", a.out)
	if err != nil {
		return err
	}
	description, err := GetMultiline(a.reader, "Description", a.out)
	if err != nil {
		return err
	}

	seed := a.seedDraft(title, description)
	d := wizard.NewDriver(a.properties,
		wizard.WithDraft(seed),
		wizard.WithDriverLogger(a.logger),
		wizard.WithBusyFunc(func(busy bool) {
			if busy {
				fmt.Fprintln(a.out, "Submitting...")
			}
		}),
	)

	for !d.AtSummary() {
		step, err := a.promptStep(ctx, d.Current())
		if err != nil {
			return err
		}
		if err := d.Next(step); err != nil {
			var ve *wizard.ValidationError
			if errors.As(err, &ve) {
				fmt.Fprintf(a.out, "Invalid input: %s\n", ve)
				continue
			}
			return err
		}
	}

	a.printSummary(d)

	ok, err := GetYesNo(a.reader, "Submit listing?", true, a.out)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(a.out, "Cancelled.")
		return nil
	}

	id, err := d.Submit(ctx)
	if err != nil {
		fmt.Fprintf(a.out, "Submission failed, nothing was lost: %s\n", err)
		return err
	}
	fmt.Fprintf(a.out, "Published listing %s.\n", id)
	return nil
}

// seedDraft builds the wizard's initial draft with the listing text filled
// in; the steps never touch these fields, so they survive the whole flow.
func (a *App) seedDraft(title, description string) models.PropertyDraft {
	draft := models.NewPropertyDraft()
	draft.Title = title
	draft.Description = description
	return draft
}

// promptStep collects the input for the named wizard step.
func (a *App) promptStep(ctx context.Context, name string) (wizard.Step, error) {
	switch name {
	case wizard.StepUnitType:
		return a.promptUnitType()
	case wizard.StepRooms:
		return a.promptRooms()
	case wizard.StepAmenities:
		selected, err := a.promptFlags("Amenities", wizard.AmenityOptions)
		return wizard.AmenitiesStep{Selected: selected}, err
	case wizard.StepOtherAmenities:
		selected, err := a.promptFlags("Building facilities", wizard.OtherAmenityOptions)
		return wizard.OtherAmenitiesStep{Selected: selected}, err
	case wizard.StepLocation:
		return a.promptLocation()
	case wizard.StepPhotos:
		return a.promptPhotos(ctx)
	case wizard.StepPrice:
		return a.promptPrice()
	case wizard.StepRules:
		selected, err := a.promptFlags("House rules", wizard.RuleOptions)
		return wizard.RulesStep{Selected: selected}, err
	case wizard.StepAvailability:
		return a.promptAvailability()
	case wizard.StepContact:
		return a.promptContact()
	default:
		return nil, fmt.Errorf("no prompt for step %s", name)
	}
}

func (a *App) promptUnitType() (wizard.Step, error) {
	fmt.Fprintln(a.out, "Unit type:")
	for i, opt := range unitTypeOptions {
		fmt.Fprintf(a.out, "  %d) %s\n", i+1, opt)
	}
	text, err := getSimpleText(a.reader, "Pick a number", a.out)
	if err != nil {
		return nil, err
	}
	n, err := strconv.Atoi(text)
	if err != nil || n < 1 || n > len(unitTypeOptions) {
		// hand the raw text to the step; its gate reports the failure
		return wizard.UnitTypeStep{PropertyType: text}, nil
	}
	return wizard.UnitTypeStep{PropertyType: unitTypeOptions[n-1]}, nil
}

func (a *App) promptRooms() (wizard.Step, error) {
	kitchens, err := GetInt(a.reader, "Kitchens", 1, a.out)
	if err != nil {
		return nil, err
	}
	bathrooms, err := GetInt(a.reader, "Bathrooms", 1, a.out)
	if err != nil {
		return nil, err
	}
	balconies, err := GetInt(a.reader, "Balconies", 0, a.out)
	if err != nil {
		return nil, err
	}
	return wizard.RoomsStep{Kitchens: kitchens, Bathrooms: bathrooms, Balconies: balconies}, nil
}

func (a *App) promptFlags(label string, options []string) (map[string]bool, error) {
	fmt.Fprintf(a.out, "%s (comma-separated, e.g. %s):\n", label, strings.Join(options[:2], ","))
	for _, opt := range options {
		fmt.Fprintf(a.out, "  - %s\n", opt)
	}
	text, err := getSimpleText(a.reader, "Your picks (empty for none)", a.out)
	if err != nil {
		return nil, err
	}
	selected := map[string]bool{}
	for _, id := range strings.Split(text, ",") {
		id = strings.TrimSpace(id)
		if id != "" {
			selected[id] = true
		}
	}
	return selected, nil
}

func (a *App) promptLocation() (wizard.Step, error) {
	address, err := getSimpleText(a.reader, "Street address", a.out)
	if err != nil {
		return nil, err
	}
	city, err := getSimpleText(a.reader, "City", a.out)
	if err != nil {
		return nil, err
	}
	state, err := getSimpleText(a.reader, "State", a.out)
	if err != nil {
		return nil, err
	}
	zip, err := getSimpleText(a.reader, "PIN code", a.out)
	if err != nil {
		return nil, err
	}
	lat, err := a.promptFloat("Latitude")
	if err != nil {
		return nil, err
	}
	lon, err := a.promptFloat("Longitude")
	if err != nil {
		return nil, err
	}
	return wizard.LocationStep{Address: address, City: city, State: state, ZipCode: zip, Latitude: lat, Longitude: lon}, nil
}

func (a *App) promptFloat(prompt string) (float64, error) {
	text, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return 0, err
	}
	if text == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		fmt.Fprintf(a.out, "Not a number: %q\n", text)
		return 0, nil
	}
	return f, nil
}

// promptPhotos collects local file paths and uploads each one, gathering the
// storage keys the listing will reference.
func (a *App) promptPhotos(ctx context.Context) (wizard.Step, error) {
	var keys []string
	for {
		path, err := getSimpleText(a.reader, "Photo file path (empty to finish)", a.out)
		if err != nil {
			return nil, err
		}
		if path == "" {
			break
		}
		key, err := a.properties.UploadPhoto(ctx, path)
		if err != nil {
			fmt.Fprintf(a.out, "Upload failed: %s\n", err)
			continue
		}
		fmt.Fprintf(a.out, "Uploaded as %s\n", key)
		keys = append(keys, key)
	}
	return wizard.PhotosStep{Photos: keys}, nil
}

func (a *App) promptPrice() (wizard.Step, error) {
	rent, err := GetInt(a.reader, fmt.Sprintf("Monthly rent (%d-%d)", wizard.MinRent, wizard.MaxRent), wizard.MinRent, a.out)
	if err != nil {
		return nil, err
	}
	deposit, err := GetInt(a.reader, "Security deposit", 0, a.out)
	if err != nil {
		return nil, err
	}
	return wizard.PriceStep{Rent: int64(rent), SecurityDeposit: int64(deposit)}, nil
}

func (a *App) promptAvailability() (wizard.Step, error) {
	now, err := GetYesNo(a.reader, "Available right now?", true, a.out)
	if err != nil {
		return nil, err
	}
	var from string
	if !now {
		from, err = getSimpleText(a.reader, "Available from (YYYY-MM-DD)", a.out)
		if err != nil {
			return nil, err
		}
	}
	return wizard.AvailabilityStep{IsAvailable: now, AvailableFrom: from}, nil
}

// promptContact prefills the contact fields from the signed-in profile.
func (a *App) promptContact() (wizard.Step, error) {
	var defName, defPhone, defEmail string
	if u := a.sync.Snapshot().User; u != nil {
		defName, defPhone, defEmail = u.Name, u.Phone, u.Email
	}

	name, err := getSimpleText(a.reader, fmt.Sprintf("Contact name [%s]", defName), a.out)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = defName
	}
	phone, err := getSimpleText(a.reader, fmt.Sprintf("Contact phone [%s]", defPhone), a.out)
	if err != nil {
		return nil, err
	}
	if phone == "" {
		phone = defPhone
	}
	email, err := getSimpleText(a.reader, fmt.Sprintf("Contact email [%s]", defEmail), a.out)
	if err != nil {
		return nil, err
	}
	if email == "" {
		email = defEmail
	}
	return wizard.ContactStep{OwnerName: name, OwnerPhone: phone, OwnerEmail: email}, nil
}

func (a *App) printSummary(d *wizard.Driver) {
	draft := d.Draft()
	fmt.Fprintln(a.out, "--- Listing summary ---")
	fmt.Fprintf(a.out, "%s (%s), %d bed / %d bath\n", draft.Title, draft.PropertyType, draft.BedCount, draft.Bathrooms)
	fmt.Fprintf(a.out, "%s, %s %s\n", draft.Address, draft.City, draft.ZipCode)
	fmt.Fprintf(a.out, "Rent ₹%d, deposit ₹%d\n", draft.Rent, draft.SecurityDeposit)

	var amenities []string
	for id, on := range draft.Amenities {
		if on {
			amenities = append(amenities, id)
		}
	}
	if len(amenities) > 0 {
		fmt.Fprintf(a.out, "Amenities: %s\n", strings.Join(amenities, ", "))
	}
	fmt.Fprintf(a.out, "Photos: %d\n", len(draft.Photos))
	if draft.IsAvailable {
		fmt.Fprintln(a.out, "Available now")
	} else {
		fmt.Fprintf(a.out, "Available from %s\n", draft.AvailableFrom)
	}
	fmt.Fprintf(a.out, "Contact: %s, %s, %s\n", draft.OwnerName, draft.OwnerPhone, draft.OwnerEmail)
}
