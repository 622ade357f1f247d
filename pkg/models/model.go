package models

import (
	"time"
)

// Timestamps holds the creation and update times of a resource.
type Timestamps struct {
	CreatedAt time.Time `json:"createdAt" example:"2024-04-02T19:28:44.491514Z"` // Time the resource was created
	UpdatedAt time.Time `json:"updatedAt" example:"2024-04-17T20:14:01.048145Z"` // Last time the resource was updated
}

// utc sets the location of the timestamps to UTC. SQLite returns them
// with a fixed +0000 zone, which does not compare equal to time.UTC.
func (t *Timestamps) utc() {
	t.CreatedAt = t.CreatedAt.In(time.UTC)
	t.UpdatedAt = t.UpdatedAt.In(time.UTC)
}
