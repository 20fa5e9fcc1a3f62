package faults_test

import (
	"errors"
	"io"
	"strings"
	"testing"

	"imgprep/internal/faults"
)

func TestWrapKeepsMarkerAndCause(t *testing.T) {
	err := faults.Wrap(faults.ErrDecode, "variants", "open", "decode source", io.ErrUnexpectedEOF)
	if !errors.Is(err, faults.ErrDecode) {
		t.Fatalf("expected decode marker, got %v", err)
	}
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("expected cause to be preserved, got %v", err)
	}
	want := "decode error: variants: open: decode source: unexpected EOF"
	if err.Error() != want {
		t.Fatalf("unexpected message: got %q want %q", err.Error(), want)
	}
}

func TestWrapDefaultsMarkerAndDetail(t *testing.T) {
	err := faults.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, faults.ErrFilesystem) {
		t.Fatalf("expected filesystem marker default, got %v", err)
	}
	if !strings.Contains(err.Error(), "stage failure") {
		t.Fatalf("expected placeholder detail, got %q", err.Error())
	}
}

func TestHint(t *testing.T) {
	if faults.Hint(faults.Wrap(faults.ErrLocked, "outdir", "lock", "", nil)) == "" {
		t.Fatal("expected hint for locked error")
	}
	if faults.Hint(errors.New("plain")) != "" {
		t.Fatal("expected no hint for unclassified error")
	}
}
