package server

import (
	"context"
	"testing"
	"time"

	"pixeldiff/internal/diff"
	"pixeldiff/internal/store"
)

func grayImage(w, h int, value uint8) *diff.Image {
	im := diff.NewImage(w, h, 3)
	for i := range im.Pix {
		im.Pix[i] = value
	}
	return im
}

func TestRunComparisonCompletes(t *testing.T) {
	baseDir := t.TempDir()
	fs, err := store.NewFSStore(baseDir)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	history, err := store.NewHistoryWriter(baseDir)
	if err != nil {
		t.Fatalf("Failed to create history writer: %v", err)
	}
	defer history.Close()

	cm := NewComparisonManager()
	cmp := cm.Create(ComparisonConfig{Threshold: 0.8})

	a := grayImage(8, 8, 0)
	b := grayImage(8, 8, 255)
	if err := runComparison(context.Background(), cm, fs, history, cmp.ID, a, b); err != nil {
		t.Fatalf("runComparison failed: %v", err)
	}

	done, _ := cm.Get(cmp.ID)
	if done.State != StateCompleted {
		t.Fatalf("Expected completed, got %s", done.State)
	}
	if done.EndTime == nil {
		t.Error("EndTime should be set")
	}
	if done.Summary["exact"].ChangedPercent != 100.0 {
		t.Errorf("Expected 100%% changed, got %f", done.Summary["exact"].ChangedPercent)
	}

	// Result persisted.
	summary, err := fs.LoadSummary(cmp.ID)
	if err != nil {
		t.Fatalf("Stored summary missing: %v", err)
	}
	if summary.ImageSize != "8×8" {
		t.Errorf("Expected 8×8, got %s", summary.ImageSize)
	}

	// History appended.
	entries, err := store.ReadHistory(baseDir)
	if err != nil {
		t.Fatalf("ReadHistory failed: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != cmp.ID {
		t.Errorf("Expected 1 history entry for %s, got %v", cmp.ID, entries)
	}
}

func TestRunComparisonInvalidInput(t *testing.T) {
	fs, err := store.NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	cm := NewComparisonManager()
	cmp := cm.Create(ComparisonConfig{Threshold: 0.8})

	// Zero-dimension image cannot be normalized.
	a := grayImage(4, 4, 0)
	b := &diff.Image{Width: 0, Height: 4, Bands: 3}
	if err := runComparison(context.Background(), cm, fs, nil, cmp.ID, a, b); err == nil {
		t.Fatal("Expected error for zero-dimension input")
	}

	failed, _ := cm.Get(cmp.ID)
	if failed.State != StateFailed {
		t.Errorf("Expected failed state, got %s", failed.State)
	}
	if failed.Error == "" {
		t.Error("Error message should be recorded")
	}
}

func TestBroadcasterDeliversTerminalEvent(t *testing.T) {
	fs, err := store.NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	cm := NewComparisonManager()
	cmp := cm.Create(ComparisonConfig{Threshold: 0.8})
	events := cm.broadcaster.Subscribe(cmp.ID)

	go runComparison(context.Background(), cm, fs, nil, cmp.ID, grayImage(4, 4, 10), grayImage(4, 4, 10))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case event := <-events:
			if event.State == StateCompleted {
				return
			}
		case <-deadline:
			t.Fatal("Never received completed event")
		}
	}
}
