package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestAlreadyParkedIsConflict(t *testing.T) {
	err := fmt.Errorf("admit: %w", AlreadyParked("ABC123"))
	if !errors.Is(err, ErrAlreadyParked) {
		t.Fatalf("expected ErrAlreadyParked, got %v", err)
	}
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected AlreadyParked to match ErrConflict")
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatalf("did not expect ErrNotFound")
	}
	if KindOf(err) != KindAlreadyParked {
		t.Fatalf("expected kind already_parked, got %s", KindOf(err))
	}
}

func TestKindOfUntyped(t *testing.T) {
	if KindOf(errors.New("boom")) != KindInternal {
		t.Fatalf("expected internal kind for untyped error")
	}
}

func TestValidateReportsInvalidInput(t *testing.T) {
	type input struct {
		Amount       int64 `validate:"gt=0"`
		Installments int   `validate:"gt=0"`
	}
	err := Validate(input{Amount: 0, Installments: 2})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if Validate(input{Amount: 10, Installments: 2}) != nil {
		t.Fatalf("expected valid input to pass")
	}
}

func TestMessageHidesCause(t *testing.T) {
	err := ConflictWrap(errors.New("UNIQUE constraint failed: washers.email"), "washer email already registered")
	if got := Message(fmt.Errorf("payroll: %w", err)); got != "washer email already registered" {
		t.Fatalf("unexpected message %q", got)
	}
	if got := Message(errors.New("driver exploded")); got != "internal error" {
		t.Fatalf("unexpected message for untyped error %q", got)
	}
	if got := Message(&Error{Kind: KindNotParked}); got != "not_parked" {
		t.Fatalf("unexpected message for bare kind %q", got)
	}
}
