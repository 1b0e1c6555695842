package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestNewErrorDefaultsToBadRequest(t *testing.T) {
	err := NewError(ErrNoParticipants)
	if err.Status != http.StatusBadRequest {
		t.Fatalf("status=%d, want %d", err.Status, http.StatusBadRequest)
	}
	if err.Code != ErrNoParticipants {
		t.Fatalf("code=%d, want %d", err.Code, ErrNoParticipants)
	}
}

func TestNewErrorFormatsDetails(t *testing.T) {
	err := NewError(ErrObserverCapacity, 10)
	if want := "Observer limit reached for this room (max 10)"; err.Message != want {
		t.Fatalf("message=%q, want %q", err.Message, want)
	}
}

func TestNewErrorUnknownCode(t *testing.T) {
	err := NewError(424242)
	if err.Code != ErrUnknown || err.Status != http.StatusInternalServerError {
		t.Fatalf("got code=%d status=%d, want ErrUnknown/500", err.Code, err.Status)
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := fmt.Errorf("listing rooms: %w", Wrap(ErrBackendUnavailable, cause))

	if !errors.Is(err, cause) {
		t.Fatalf("errors.Is did not find cause through %v", err)
	}
	if got := CodeOf(err); got != ErrBackendUnavailable {
		t.Fatalf("CodeOf=%d, want %d", got, ErrBackendUnavailable)
	}
	if got := From(err); got.Status != http.StatusInternalServerError {
		t.Fatalf("From status=%d, want 500", got.Status)
	}
}

func TestFromPlainError(t *testing.T) {
	got := From(errors.New("boom"))
	if got.Code != ErrUnknown {
		t.Fatalf("code=%d, want %d", got.Code, ErrUnknown)
	}
	if From(nil) != nil {
		t.Fatal("From(nil) should be nil")
	}
	if CodeOf(errors.New("plain")) != 0 {
		t.Fatal("CodeOf(plain) should be 0")
	}
}
