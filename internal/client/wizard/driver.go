package wizard

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ashishkaushik/leazzy/internal/client/models"
	"github.com/ashishkaushik/leazzy/internal/logging"
)

// Codec serializes the draft at step boundaries. The driver never hands the
// same draft value from one step to the next directly: every hop goes
// through Encode/Decode, so a codec that loses information is caught by the
// flow itself rather than at submission.
type Codec interface {
	Encode(d models.PropertyDraft) ([]byte, error)
	Decode(data []byte) (models.PropertyDraft, error)
}

// JSONCodec is the default draft transport.
type JSONCodec struct{}

func (JSONCodec) Encode(d models.PropertyDraft) ([]byte, error) {
	return json.Marshal(d)
}

func (JSONCodec) Decode(data []byte) (models.PropertyDraft, error) {
	var d models.PropertyDraft
	err := json.Unmarshal(data, &d)
	return d, err
}

// Submitter turns a completed draft into a published listing.
type Submitter interface {
	CreateProperty(ctx context.Context, draft models.PropertyDraft) (string, error)
}

// Driver runs the wizard: it holds the draft snapshots for every visited
// step plus the inputs applied at each, which is what makes backward and
// forward navigation possible without re-entering data.
//
// history[i] is the encoded draft as it was when step i was entered, so
// going back to step i restores exactly the pre-edit view of that step.
// applied[i] is the input step last accepted at position i; moving forward
// again re-applies it to the restored snapshot.
type Driver struct {
	codec     Codec
	submitter Submitter
	logger    logging.Logger
	busy      func(bool)

	idx     int
	history [][]byte
	applied []Step
}

type DriverOption func(*Driver)

// WithCodec replaces the default JSON transport.
func WithCodec(c Codec) DriverOption {
	return func(d *Driver) { d.codec = c }
}

// WithBusyFunc sets the callback fired around submission (spinner control).
func WithBusyFunc(fn func(bool)) DriverOption {
	return func(d *Driver) { d.busy = fn }
}

func WithDriverLogger(l logging.Logger) DriverOption {
	return func(d *Driver) { d.logger = l }
}

// WithDraft seeds the wizard with an existing draft instead of the defaults.
func WithDraft(draft models.PropertyDraft) DriverOption {
	return func(d *Driver) {
		data, err := d.codec.Encode(draft)
		if err != nil {
			d.logger.Error(context.Background(), "failed to encode seed draft, using defaults", "error", err)
			return
		}
		d.history[0] = data
	}
}

func NewDriver(submitter Submitter, opts ...DriverOption) *Driver {
	d := &Driver{
		codec:     JSONCodec{},
		submitter: submitter,
		logger:    logging.Nop(),
		applied:   make([]Step, len(StepOrder)),
	}
	seed, _ := d.codec.Encode(models.NewPropertyDraft())
	d.history = [][]byte{seed}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Current returns the name of the step the wizard is on.
func (d *Driver) Current() string {
	return StepOrder[d.idx]
}

// AtSummary reports whether the wizard has reached the terminal step.
func (d *Driver) AtSummary() bool {
	return d.idx == len(StepOrder)-1
}

// Draft decodes and returns the draft as it stands entering the current
// step.
func (d *Driver) Draft() models.PropertyDraft {
	draft, err := d.codec.Decode(d.history[d.idx])
	if err != nil {
		d.logger.Error(context.Background(), "failed to decode draft snapshot", "step", d.Current(), "error", err)
		return models.NewPropertyDraft()
	}
	return draft
}

// Next validates and applies the given input for the current step and, on
// success, advances to the following step. A validation failure leaves the
// wizard exactly where it is.
func (d *Driver) Next(s Step) error {
	if d.AtSummary() {
		return fmt.Errorf("wizard: already at %s", StepSummary)
	}
	if s.Name() != d.Current() {
		return fmt.Errorf("wizard: step %s given while on %s", s.Name(), d.Current())
	}

	out, err := s.Apply(d.Draft())
	if err != nil {
		return err
	}
	data, err := d.codec.Encode(out)
	if err != nil {
		return fmt.Errorf("wizard: encode draft after %s: %w", s.Name(), err)
	}

	d.applied[d.idx] = s
	d.idx++
	d.setSnapshot(d.idx, data)
	return nil
}

// Back returns to the previous step, restoring the draft as it was when that
// step was entered. The input applied there is remembered for Forward.
func (d *Driver) Back() error {
	if d.idx == 0 {
		return fmt.Errorf("wizard: already at the first step")
	}
	d.idx--
	return nil
}

// Forward re-applies the input remembered for the current step and advances.
// It fails if the step has never been completed.
func (d *Driver) Forward() error {
	if d.AtSummary() {
		return fmt.Errorf("wizard: already at %s", StepSummary)
	}
	s := d.applied[d.idx]
	if s == nil {
		return fmt.Errorf("wizard: step %s has no remembered input", d.Current())
	}
	return d.Next(s)
}

// Jump moves directly to the step at position i, carrying the current draft
// along unchanged. Steps skipped over keep no remembered input; their gates
// are not enforced until the draft is submitted.
func (d *Driver) Jump(i int) error {
	if i < 0 || i >= len(StepOrder) {
		return fmt.Errorf("wizard: no step at position %d", i)
	}
	snap := d.history[d.idx]
	d.idx = i
	d.setSnapshot(i, snap)
	return nil
}

// Submit publishes the draft from the summary step. On failure the wizard
// stays on the summary with the draft intact so submission can be retried;
// on success the wizard resets to a fresh draft at the first step.
func (d *Driver) Submit(ctx context.Context) (string, error) {
	if !d.AtSummary() {
		return "", fmt.Errorf("wizard: submit only allowed at %s, on %s", StepSummary, d.Current())
	}

	if d.busy != nil {
		d.busy(true)
		defer d.busy(false)
	}

	id, err := d.submitter.CreateProperty(ctx, d.Draft())
	if err != nil {
		d.logger.Error(ctx, "property submission failed, draft kept", "error", err)
		return "", fmt.Errorf("submit property: %w", err)
	}

	d.reset()
	return id, nil
}

func (d *Driver) reset() {
	seed, _ := d.codec.Encode(models.NewPropertyDraft())
	d.idx = 0
	d.history = [][]byte{seed}
	d.applied = make([]Step, len(StepOrder))
}

func (d *Driver) setSnapshot(i int, data []byte) {
	for len(d.history) <= i {
		d.history = append(d.history, nil)
	}
	d.history[i] = data
}
