package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashishkaushik/leazzy/internal/client/models"
	"github.com/ashishkaushik/leazzy/internal/client/wizard"
)

func promptApp(input string) (*App, *bytes.Buffer) {
	var out bytes.Buffer
	return &App{reader: rdr(input), out: &out}, &out
}

func TestPromptUnitType(t *testing.T) {
	a, _ := promptApp("2\n")
	step, err := a.promptUnitType()
	require.NoError(t, err)
	assert.Equal(t, wizard.UnitTypeStep{PropertyType: "2 BHK"}, step)
}

func TestPromptUnitType_RawTextPassedToGate(t *testing.T) {
	a, _ := promptApp("castle\n")
	step, err := a.promptUnitType()
	require.NoError(t, err)
	assert.Equal(t, wizard.UnitTypeStep{PropertyType: "castle"}, step)

	// the step's own gate rejects the unknown value
	_, err = step.Apply(models.NewPropertyDraft())
	require.Error(t, err)
}

func TestPromptRooms(t *testing.T) {
	a, _ := promptApp("2\n1\n\n")
	step, err := a.promptRooms()
	require.NoError(t, err)
	assert.Equal(t, wizard.RoomsStep{Kitchens: 2, Bathrooms: 1, Balconies: 0}, step)
}

func TestPromptFlags(t *testing.T) {
	a, _ := promptApp("wifi, ac\n")
	selected, err := a.promptFlags("Amenities", wizard.AmenityOptions)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"wifi": true, "ac": true}, selected)
}

func TestPromptFlags_Empty(t *testing.T) {
	a, _ := promptApp("\n")
	selected, err := a.promptFlags("Amenities", wizard.AmenityOptions)
	require.NoError(t, err)
	assert.Empty(t, selected)
}

func TestPromptPrice(t *testing.T) {
	a, _ := promptApp("12000\n24000\n")
	step, err := a.promptPrice()
	require.NoError(t, err)
	assert.Equal(t, wizard.PriceStep{Rent: 12000, SecurityDeposit: 24000}, step)
}

func TestPromptAvailability_Now(t *testing.T) {
	a, _ := promptApp("y\n")
	step, err := a.promptAvailability()
	require.NoError(t, err)
	assert.Equal(t, wizard.AvailabilityStep{IsAvailable: true}, step)
}

func TestPromptAvailability_Later(t *testing.T) {
	a, _ := promptApp("n\n2026-10-01\n")
	step, err := a.promptAvailability()
	require.NoError(t, err)
	assert.Equal(t, wizard.AvailabilityStep{IsAvailable: false, AvailableFrom: "2026-10-01"}, step)
}

func TestSeedDraft(t *testing.T) {
	a, _ := promptApp("")
	draft := a.seedDraft("2 BHK in Indiranagar", "Bright corner unit")
	assert.Equal(t, "2 BHK in Indiranagar", draft.Title)
	assert.Equal(t, "Bright corner unit", draft.Description)
	assert.True(t, draft.IsAvailable)
}
