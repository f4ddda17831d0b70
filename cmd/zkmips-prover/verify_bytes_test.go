package main

import (
	"encoding/hex"
	"testing"

	"github.com/zkmips/zkmips/internal/zkmips/core"
)

func TestParseDigestHexInvertsDigestBytes(t *testing.T) {
	d := core.Poseidon2Hash([]core.Elem{core.NewElemFromInt64(7), core.NewElemFromInt64(13)})
	encoded := hex.EncodeToString(d.Bytes())

	parsed, err := parseDigestHex(encoded)
	if err != nil {
		t.Fatalf("parseDigestHex: %v", err)
	}
	if parsed != d {
		t.Fatalf("expected parseDigestHex to invert Bytes(): got %v, want %v", parsed, d)
	}
}

func TestParseDigestHexRejectsWrongLength(t *testing.T) {
	if _, err := parseDigestHex("deadbeef"); err == nil {
		t.Fatal("expected an error for a digest shorter than DigestWidth*4 bytes")
	}
}

func TestParseDigestHexRejectsInvalidHex(t *testing.T) {
	if _, err := parseDigestHex("not-hex-at-all"); err == nil {
		t.Fatal("expected an error for invalid hex input")
	}
}
