package server

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"pixeldiff/internal/store"
)

// ComparisonState represents the current state of a comparison job
type ComparisonState string

const (
	StatePending   ComparisonState = "pending"
	StateRunning   ComparisonState = "running"
	StateCompleted ComparisonState = "completed"
	StateFailed    ComparisonState = "failed"
)

// ComparisonConfig holds the user-facing parameters of a comparison
type ComparisonConfig struct {
	Threshold       float64 `json:"threshold"`
	IgnoreLuminance bool    `json:"ignoreLuminance"`
}

// Comparison represents one image comparison job
type Comparison struct {
	ID        string                            `json:"id"`
	State     ComparisonState                   `json:"state"`
	Config    ComparisonConfig                  `json:"config"`
	Summary   map[string]store.AlgorithmSummary `json:"summary,omitempty"`
	ImageSize string                            `json:"imageSize,omitempty"`
	StartTime time.Time                         `json:"startTime"`
	EndTime   *time.Time                        `json:"endTime,omitempty"`
	Error     string                            `json:"error,omitempty"`
}

// snapshot returns an independent copy safe to read outside the manager
// lock. The summary map and end time are cloned so later Update calls
// cannot reach them.
func (c *Comparison) snapshot() Comparison {
	cp := *c
	if c.Summary != nil {
		cp.Summary = make(map[string]store.AlgorithmSummary, len(c.Summary))
		for k, v := range c.Summary {
			cp.Summary[k] = v
		}
	}
	if c.EndTime != nil {
		end := *c.EndTime
		cp.EndTime = &end
	}
	return cp
}

// ComparisonManager manages the lifecycle of comparison jobs. The mutable
// structs never leave the manager; accessors return snapshots so readers
// do not race with worker updates.
type ComparisonManager struct {
	mu          sync.RWMutex
	comparisons map[string]*Comparison
	broadcaster *EventBroadcaster
}

// NewComparisonManager creates a new ComparisonManager
func NewComparisonManager() *ComparisonManager {
	return &ComparisonManager{
		comparisons: make(map[string]*Comparison),
		broadcaster: NewEventBroadcaster(),
	}
}

// Create registers a new pending comparison with the given configuration
func (cm *ComparisonManager) Create(config ComparisonConfig) Comparison {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	cmp := &Comparison{
		ID:        uuid.New().String(),
		State:     StatePending,
		Config:    config,
		StartTime: time.Now(),
	}

	cm.comparisons[cmp.ID] = cmp
	return cmp.snapshot()
}

// Get retrieves a snapshot of a comparison by ID
func (cm *ComparisonManager) Get(id string) (Comparison, bool) {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	cmp, exists := cm.comparisons[id]
	if !exists {
		return Comparison{}, false
	}
	return cmp.snapshot(), true
}

// List returns snapshots of all comparisons
func (cm *ComparisonManager) List() []Comparison {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	comparisons := make([]Comparison, 0, len(cm.comparisons))
	for _, cmp := range cm.comparisons {
		comparisons = append(comparisons, cmp.snapshot())
	}
	return comparisons
}

// Update atomically updates a comparison using the provided function
func (cm *ComparisonManager) Update(id string, updateFn func(*Comparison)) error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	cmp, exists := cm.comparisons[id]
	if !exists {
		return fmt.Errorf("comparison not found: %s", id)
	}

	updateFn(cmp)
	return nil
}
