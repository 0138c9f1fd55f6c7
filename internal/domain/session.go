package domain

import "time"

// ApplicationSession is the unit of persistence: one applicant's collected
// data and progression state, keyed by an opaque identifier. Exactly one
// session exists per ID; concurrent writers are last-write-wins.
type ApplicationSession struct {
	SessionID            string         `json:"sessionId"`
	Collected            *CollectedData `json:"collectedData"`
	CurrentSection       Section        `json:"currentSection"`
	CompletionPercentage int            `json:"completionPercentage"`
	CreatedAt            time.Time      `json:"createdAt"`
	UpdatedAt            time.Time      `json:"updatedAt"`
	// ExpiresAt is the absolute time after which the store treats the
	// session as gone, independent of application logic.
	ExpiresAt time.Time `json:"expiresAt"`
}
