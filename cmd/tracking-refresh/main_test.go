package main

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestShipmentIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ids.txt")
	if err := os.WriteFile(path, []byte("SHP-3\n# comment\n\nSHP-1\nSHP-4\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := shipmentIDs("SHP-1, SHP-2,,SHP-1", path)
	if err != nil {
		t.Fatalf("shipmentIDs: %v", err)
	}
	want := []string{"SHP-1", "SHP-2", "SHP-3", "SHP-4"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestShipmentIDsMissingFile(t *testing.T) {
	if _, err := shipmentIDs("", filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
