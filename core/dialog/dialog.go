package dialog

import (
	"context"
	"errors"
	"eventdesk/common/errs"
	"sync"
)

type State int

const (
	Closed State = iota
	Editing
	Submitting
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Editing:
		return "editing"
	case Submitting:
		return "submitting"
	}
	return "unknown"
}

var (
	ErrNotOpen    = errors.New("dialog is not open")
	ErrSubmitting = errors.New("dialog is already submitting")
)

type (
	Validator[T any]    func(values T) error
	Submitter[T, R any] func(ctx context.Context, values T) (R, error)
)

// Dialog is the create/edit contract shared by every mutation:
// closed -> editing -> submitting -> closed on success or editing on error.
// Validation runs before the single upstream call and a failed call is never
// retried.
type Dialog[T, R any] struct {
	mu sync.Mutex

	defaults T
	values   T
	state    State

	validate Validator[T]
	submit   Submitter[T, R]

	fieldErrors map[string]string
	banner      string
}

func New[T, R any](defaults T, validate Validator[T], submit Submitter[T, R]) *Dialog[T, R] {
	return &Dialog[T, R]{
		defaults: defaults,
		values:   defaults,
		validate: validate,
		submit:   submit,
	}
}

func (d *Dialog[T, R]) Open(values T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.values = values
	d.state = Editing
	d.clearErrors()
}

func (d *Dialog[T, R]) Update(values T) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch d.state {
	case Closed:
		return ErrNotOpen
	case Submitting:
		return ErrSubmitting
	}

	d.values = values
	return nil
}

// Submit validates the values and, when they pass, issues exactly one call.
// Field scoped failures land in FieldErrors, anything else in Banner.
func (d *Dialog[T, R]) Submit(ctx context.Context) (R, error) {
	var zero R

	d.mu.Lock()
	switch d.state {
	case Closed:
		d.mu.Unlock()
		return zero, ErrNotOpen
	case Submitting:
		d.mu.Unlock()
		return zero, ErrSubmitting
	}

	d.clearErrors()
	values := d.values

	if d.validate != nil {
		if err := d.validate(values); err != nil {
			d.recordError(err)
			d.mu.Unlock()
			return zero, err
		}
	}

	d.state = Submitting
	d.mu.Unlock()

	result, err := d.submit(ctx, values)

	d.mu.Lock()
	defer d.mu.Unlock()

	if err != nil {
		d.state = Editing
		d.recordError(err)
		return zero, err
	}

	d.reset()
	return result, nil
}

func (d *Dialog[T, R]) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.reset()
}

func (d *Dialog[T, R]) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.state
}

func (d *Dialog[T, R]) Values() T {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.values
}

func (d *Dialog[T, R]) FieldErrors() map[string]string {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.fieldErrors == nil {
		return nil
	}
	out := make(map[string]string, len(d.fieldErrors))
	for k, v := range d.fieldErrors {
		out[k] = v
	}
	return out
}

func (d *Dialog[T, R]) Banner() string {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.banner
}

func (d *Dialog[T, R]) recordError(err error) {
	if fields := errs.FieldErrors(err); fields != nil {
		d.fieldErrors = fields
		return
	}
	d.banner = errs.Message(err)
}

func (d *Dialog[T, R]) clearErrors() {
	d.fieldErrors = nil
	d.banner = ""
}

func (d *Dialog[T, R]) reset() {
	d.values = d.defaults
	d.state = Closed
	d.clearErrors()
}

// Run drives one dialog through open and submit. Handlers use it to apply
// the dialog contract to a single request.
func Run[T, R any](ctx context.Context, values T, validate Validator[T], submit Submitter[T, R]) (R, error) {
	var zero T
	d := New(zero, validate, submit)
	d.Open(values)
	return d.Submit(ctx)
}
