package mcpquic

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestMagicBytesRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := SendMagicBytes(&buf); err != nil {
		t.Fatalf("SendMagicBytes: %v", err)
	}
	if err := ValidateMagicBytes(&buf); err != nil {
		t.Errorf("ValidateMagicBytes: %v", err)
	}
}

func TestValidateMagicBytes_Wrong(t *testing.T) {
	err := ValidateMagicBytes(strings.NewReader("HTTP"))
	if !errors.Is(err, ErrInvalidMagicBytes) {
		t.Errorf("err = %v, want ErrInvalidMagicBytes", err)
	}
}

func TestValidateMagicBytes_Short(t *testing.T) {
	if err := ValidateMagicBytes(strings.NewReader("MC")); err == nil {
		t.Error("expected error for truncated preamble")
	}
}
