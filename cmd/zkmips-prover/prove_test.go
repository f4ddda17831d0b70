package main

import (
	"testing"

	"github.com/zkmips/zkmips/pkg/zkmips"
)

func resetModeFlags() {
	proveCore = false
	proveCompress = false
	provePlonk = false
	proveGroth16 = false
}

func TestSelectedModeDefaultsToCore(t *testing.T) {
	resetModeFlags()
	defer resetModeFlags()
	mode, err := selectedMode()
	if err != nil {
		t.Fatalf("selectedMode: %v", err)
	}
	if mode != zkmips.ModeCore {
		t.Fatalf("expected core mode, got %v", mode)
	}
}

func TestSelectedModeHonorsEachFlag(t *testing.T) {
	defer resetModeFlags()
	cases := []struct {
		set  func()
		want zkmips.Mode
	}{
		{func() { proveCompress = true }, zkmips.ModeCompressed},
		{func() { provePlonk = true }, zkmips.ModePlonk},
		{func() { proveGroth16 = true }, zkmips.ModeGroth16},
	}
	for _, c := range cases {
		resetModeFlags()
		c.set()
		mode, err := selectedMode()
		if err != nil {
			t.Fatalf("selectedMode: %v", err)
		}
		if mode != c.want {
			t.Errorf("expected %v, got %v", c.want, mode)
		}
	}
}

func TestSelectedModeRejectsMultipleFlags(t *testing.T) {
	resetModeFlags()
	defer resetModeFlags()
	proveCompress = true
	provePlonk = true
	if _, err := selectedMode(); err == nil {
		t.Fatal("expected an error when more than one mode flag is set")
	}
}
