// Package models defines the portal's domain types: candidates, their
// applications, timeline events and action payloads.
package models

import (
	"time"

	"github.com/dmitrijs2005/talentdesk/internal/pipeline"
)

// Candidate is the subject entity of the review pipeline. Instances are
// always server-confirmed snapshots; the client never fabricates one from a
// request payload. AllowedActions is derived from CurrentState and must
// match pipeline.AllowedActions for that state.
type Candidate struct {
	ID                string
	ApplicationID     string
	Name              string
	Email             string
	Phone             string
	Location          string
	Skills            []string
	ExperienceSummary string
	CTCCurrent        *float64
	CTCExpected       *float64
	ResumeURL         string
	CurrentState      pipeline.State
	AllowedActions    []pipeline.Action
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Allows reports whether the given action is currently offered for c.
func (c Candidate) Allows(action pipeline.Action) bool {
	for _, a := range c.AllowedActions {
		if a == action {
			return true
		}
	}
	return false
}

// Application is the backend record linking a candidate to a role. The
// candidate list shown in the portal is the id-deduplicated union of
// candidates embedded in application records.
type Application struct {
	ID               string
	CandidateID      string
	ClientID         string
	JobTitle         string
	ApplicationDate  time.Time
	Status           string
	FlaggedForReview bool
	FlagReason       string
	IsDeleted        bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Identity is the authenticated user as reported by the backend.
type Identity struct {
	ID         string
	Email      string
	Role       string
	ClientID   string
	ClientName string
	CreatedAt  time.Time
}
