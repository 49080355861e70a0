package docerr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindNotFound, http.StatusNotFound},
		{KindPageOutOfRange, http.StatusNotFound},
		{KindBlobMissing, http.StatusNotFound},
		{KindUnsupportedMediaType, http.StatusUnsupportedMediaType},
		{KindMalformedDocument, http.StatusBadRequest},
		{KindStorageUnavailable, http.StatusServiceUnavailable},
		{KindUnknown, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			err := New(tt.kind, "op", "message")
			if got := HTTPStatus(err); got != tt.want {
				t.Errorf("HTTPStatus(%s) = %d, want %d", tt.kind, got, tt.want)
			}
		})
	}
}

func TestHTTPStatusPlainError(t *testing.T) {
	if got := HTTPStatus(errors.New("boom")); got != http.StatusInternalServerError {
		t.Errorf("HTTPStatus(plain error) = %d, want 500", got)
	}
}

func TestKindOfWrapped(t *testing.T) {
	inner := Newf(KindNotFound, "store.GetDocument", "no document exists with id %s", "abc")
	wrapped := fmt.Errorf("lookup failed: %w", inner)

	if got := KindOf(wrapped); got != KindNotFound {
		t.Errorf("KindOf(wrapped) = %s, want %s", got, KindNotFound)
	}
	if !IsNotFound(wrapped) {
		t.Error("IsNotFound(wrapped) = false, want true")
	}
	if IsBlobMissing(wrapped) {
		t.Error("IsBlobMissing(wrapped) = true, want false")
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(KindStorageUnavailable, "store.Put", "failed to write object", cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestErrorString(t *testing.T) {
	err := New(KindNotFound, "store.GetDocument", "no document exists with id x")
	want := "store.GetDocument: not_found: no document exists with id x"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	noOp := &Error{Kind: KindBlobMissing, Message: "gone"}
	if noOp.Error() != "blob_missing: gone" {
		t.Errorf("Error() without op = %q", noOp.Error())
	}
}
