package apierr

import (
	"errors"
	"net/http"
	"testing"
)

func TestKindStatus(t *testing.T) {
	cases := []struct {
		kind Kind
		want int
	}{
		{BadInput, http.StatusBadRequest},
		{BadState, http.StatusBadRequest},
		{DecodeFailure, http.StatusBadRequest},
		{AssemblyFailure, http.StatusInternalServerError},
		{InternalFailure, http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := c.kind.Status(); got != c.want {
			t.Errorf("%v.Status() = %d, want %d", c.kind, got, c.want)
		}
	}
}

func TestErrorMessage(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(AssemblyFailure, "could not assemble font", cause)
	want := "could not assemble font: boom"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, cause) {
		t.Error("Wrap should unwrap to its cause")
	}
}

func TestNewHasNoCause(t *testing.T) {
	err := New(BadInput, "missing font_name")
	if err.Error() != "missing font_name" {
		t.Errorf("Error() = %q", err.Error())
	}
	if err.Unwrap() != nil {
		t.Error("New should not set a cause")
	}
}
