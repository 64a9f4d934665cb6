package main

import (
	"testing"
	"time"

	"pixeldiff/internal/store"
)

func TestSelectResultsForDeletion(t *testing.T) {
	now := time.Now()
	summaries := []store.Summary{
		{ID: "fresh", CreatedAt: now.Add(-10 * time.Minute)},
		{ID: "stale", CreatedAt: now.Add(-3 * time.Hour)},
		{ID: "ancient", CreatedAt: now.Add(-48 * time.Hour)},
	}

	toDelete := selectResultsForDeletion(summaries, time.Hour)

	if len(toDelete) != 2 {
		t.Fatalf("Expected 2 results to delete, got %d", len(toDelete))
	}
	for _, summary := range toDelete {
		if summary.ID == "fresh" {
			t.Error("Fresh result should not be selected for deletion")
		}
	}
}

func TestSelectResultsForDeletionEmpty(t *testing.T) {
	if toDelete := selectResultsForDeletion(nil, time.Hour); len(toDelete) != 0 {
		t.Errorf("Expected no selections, got %d", len(toDelete))
	}
}

func TestFormatBytes(t *testing.T) {
	cases := map[int64]string{
		512:     "512 B",
		2048:    "2.0 KiB",
		1048576: "1.0 MiB",
	}
	for in, want := range cases {
		if got := formatBytes(in); got != want {
			t.Errorf("formatBytes(%d): expected %s, got %s", in, want, got)
		}
	}
}
