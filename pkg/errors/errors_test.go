package errors

import (
	"errors"
	"fmt"
	"io"
	"testing"
)

func TestDuplicateIdentityError_EchoesTitle(t *testing.T) {
	err := &DuplicateIdentityError{Title: "CSE-D-4-1"}
	want := `Configuration with title "CSE-D-4-1" already exists`
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}

func TestTransportError_Unwrap(t *testing.T) {
	err := fmt.Errorf("create: %w", &TransportError{Op: "POST /config", Err: io.ErrUnexpectedEOF})
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Error("TransportError should unwrap to the cause")
	}
	var te *TransportError
	if !errors.As(err, &te) || te.Op != "POST /config" {
		t.Errorf("expected TransportError with op, got %v", err)
	}
}

func TestIsValidation(t *testing.T) {
	if !IsValidation(fmt.Errorf("wrap: %w", NewValidation("section", "bad"))) {
		t.Error("wrapped ValidationError should be detected")
	}
	if IsValidation(ErrAuthentication) {
		t.Error("ErrAuthentication is not a validation error")
	}
}
