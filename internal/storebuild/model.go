package storebuild

import (
	"time"

	"github.com/google/uuid"
)

// Build statuses, in lifecycle order.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusReview     = "review"
	StatusCompleted  = "completed"
)

// statusOrder maps each status to its position in the build lifecycle.
var statusOrder = map[string]int{
	StatusPending:    0,
	StatusInProgress: 1,
	StatusReview:     2,
	StatusCompleted:  3,
}

// Build represents one customer's storefront build.
type Build struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	StoreName string
	Status    string
	Progress  int // 0-100
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Step is one stage of the build as shown on the progress view.
type Step struct {
	Name string
	Done bool
}

// Steps derives the progress-view stages from the build status.
func (b *Build) Steps() []Step {
	pos, ok := statusOrder[b.Status]
	if !ok {
		pos = 0
	}
	names := []string{"Order received", "Store set up", "Ready for review", "Launched"}
	steps := make([]Step, 0, len(names))
	for i, name := range names {
		steps = append(steps, Step{Name: name, Done: pos > i || b.Status == StatusCompleted})
	}
	return steps
}
