package models

import (
	"time"

	"github.com/dmitrijs2005/talentdesk/internal/pipeline"
)

// TimelineEventType classifies a timeline entry.
type TimelineEventType string

const (
	EventStateChange    TimelineEventType = "state_change"
	EventInterviewRound TimelineEventType = "interview_round"
	EventFeedback       TimelineEventType = "feedback"
)

// Actor identifies who produced a timeline entry.
type Actor string

const (
	ActorClient Actor = "client"
	ActorSystem Actor = "system"
	ActorHR     Actor = "hr"
)

// InterviewMode is how an interview round is conducted.
type InterviewMode string

const (
	ModeVideo    InterviewMode = "video"
	ModePhone    InterviewMode = "phone"
	ModeInPerson InterviewMode = "in_person"
)

// Recommendation is the closed five-point hire recommendation scale.
type Recommendation string

const (
	RecommendStrongYes Recommendation = "strong_yes"
	RecommendYes       Recommendation = "yes"
	RecommendNeutral   Recommendation = "neutral"
	RecommendNo        Recommendation = "no"
	RecommendStrongNo  Recommendation = "strong_no"
)

var recommendationLabels = map[Recommendation]string{
	RecommendStrongYes: "Strong Yes",
	RecommendYes:       "Yes",
	RecommendNeutral:   "Neutral",
	RecommendNo:        "No",
	RecommendStrongNo:  "Strong No",
}

// Valid reports whether r is on the recommendation scale.
func (r Recommendation) Valid() bool {
	_, ok := recommendationLabels[r]
	return ok
}

// Label returns a human-facing name for r.
func (r Recommendation) Label() string {
	if l, ok := recommendationLabels[r]; ok {
		return l
	}
	return string(r)
}

// Valid reports whether m is a known interview mode.
func (m InterviewMode) Valid() bool {
	return m == ModeVideo || m == ModePhone || m == ModeInPerson
}

// InterviewRound carries the detail of a scheduled interview round.
type InterviewRound struct {
	Round       int
	Mode        InterviewMode
	Interviewer string
	ScheduledAt time.Time
}

// Feedback carries structured interview feedback.
type Feedback struct {
	Round          int
	Rating         int
	Recommendation Recommendation
}

// TimelineEvent is an immutable, timestamped record of something that
// happened to a candidate's application. Ordered by Timestamp ascending.
type TimelineEvent struct {
	ID          string
	CandidateID string
	Type        TimelineEventType
	State       pipeline.State
	Timestamp   time.Time
	Actor       Actor
	Note        string
	Interview   *InterviewRound
	Feedback    *Feedback
}
