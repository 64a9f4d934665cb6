package store

import (
	"testing"
	"time"
)

func TestHistoryAppendAndRead(t *testing.T) {
	baseDir := t.TempDir()

	hw, err := NewHistoryWriter(baseDir)
	if err != nil {
		t.Fatalf("NewHistoryWriter failed: %v", err)
	}

	entries := []HistoryEntry{
		{
			ID:             "cmp-1",
			ImageSize:      "4×4",
			Threshold:      0.8,
			ChangedPercent: map[string]float64{"exact": 25.0},
			Timestamp:      time.Now(),
		},
		{
			ID:             "cmp-2",
			ImageSize:      "8×8",
			Threshold:      0.5,
			ChangedPercent: map[string]float64{"exact": 100.0, "ssim": 12.5},
			Timestamp:      time.Now(),
		},
	}
	for _, entry := range entries {
		if err := hw.Append(entry); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}
	if err := hw.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	got, err := ReadHistory(baseDir)
	if err != nil {
		t.Fatalf("ReadHistory failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(got))
	}
	if got[0].ID != "cmp-1" || got[1].ID != "cmp-2" {
		t.Errorf("Entries out of order: %s, %s", got[0].ID, got[1].ID)
	}
	if got[1].ChangedPercent["ssim"] != 12.5 {
		t.Errorf("Expected ssim percent 12.5, got %f", got[1].ChangedPercent["ssim"])
	}
}

func TestReadHistoryMissingFile(t *testing.T) {
	entries, err := ReadHistory(t.TempDir())
	if err != nil {
		t.Fatalf("ReadHistory on missing file failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected no entries, got %d", len(entries))
	}
}
