package main

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

func TestBuildInputStreamPacksN(t *testing.T) {
	data, err := buildInputStream(42, true, "")
	if err != nil {
		t.Fatalf("buildInputStream: %v", err)
	}
	if len(data) != 4 {
		t.Fatalf("expected 4 bytes, got %d", len(data))
	}
	if binary.LittleEndian.Uint32(data) != 42 {
		t.Fatalf("expected little-endian 42, got %v", data)
	}
}

func TestBuildInputStreamReadsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.bin")
	if err := os.WriteFile(path, []byte{1, 2, 3}, 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	data, err := buildInputStream(0, false, path)
	if err != nil {
		t.Fatalf("buildInputStream: %v", err)
	}
	if string(data) != "\x01\x02\x03" {
		t.Fatalf("expected raw file bytes, got %v", data)
	}
}

func TestBuildInputStreamEmptyWhenNeitherSet(t *testing.T) {
	data, err := buildInputStream(0, false, "")
	if err != nil {
		t.Fatalf("buildInputStream: %v", err)
	}
	if data != nil {
		t.Fatalf("expected a nil stream, got %v", data)
	}
}

func TestLoadConfigSelectsBackend(t *testing.T) {
	cfg, err := loadConfig("plonk")
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Backend != "plonk" {
		t.Fatalf("expected plonk backend, got %v", cfg.Backend)
	}
}

func TestLoadConfigRejectsUnknownBackend(t *testing.T) {
	if _, err := loadConfig("nonsense"); err == nil {
		t.Fatal("expected an error for an unknown backend")
	}
}
