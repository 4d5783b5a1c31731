// Package pipeline defines the candidate review pipeline: the closed set of
// candidate states, the client actions that move candidates between them, and
// the legality table connecting the two. It is a pure lookup module with no
// side effects; the backend remains authoritative and on conflict its ruling
// (published on an action response) always wins.
package pipeline

import (
	"fmt"

	"github.com/dmitrijs2005/talentdesk/internal/common"
)

// State is one of the six pipeline stages a candidate occupies exclusively.
type State string

const (
	StateToReview           State = "TO_REVIEW"
	StateInterviewScheduled State = "INTERVIEW_SCHEDULED"
	StateSelected           State = "SELECTED"
	StateJoined             State = "JOINED"
	StateRejected           State = "REJECTED"
	StateLeftCompany        State = "LEFT_COMPANY"
)

// Action is a user-initiated request to move a candidate to a new state.
type Action string

const (
	ActionScheduleInterview Action = "SCHEDULE_INTERVIEW"
	ActionSelect            Action = "SELECT"
	ActionReject            Action = "REJECT"
	ActionMarkLeftCompany   Action = "MARK_LEFT_COMPANY"
)

// States lists every pipeline state in board order.
var States = []State{
	StateToReview,
	StateInterviewScheduled,
	StateSelected,
	StateJoined,
	StateRejected,
	StateLeftCompany,
}

// allowedActions is the per-state action table offered to the portal user.
// SELECTED -> JOINED is a legal transition but is performed by HR on the
// backend, so no client action maps to it.
var allowedActions = map[State][]Action{
	StateToReview:           {ActionScheduleInterview, ActionSelect, ActionReject},
	StateInterviewScheduled: {ActionScheduleInterview, ActionSelect, ActionReject},
	StateSelected:           {ActionReject},
	StateJoined:             {ActionMarkLeftCompany},
	StateRejected:           {},
	StateLeftCompany:        {},
}

// transitions is the full legality table, including transitions that only
// the backend initiates. Terminal states have no outgoing edges.
var transitions = map[State][]State{
	StateToReview:           {StateInterviewScheduled, StateSelected, StateRejected},
	StateInterviewScheduled: {StateInterviewScheduled, StateSelected, StateRejected},
	StateSelected:           {StateJoined, StateRejected},
	StateJoined:             {StateLeftCompany},
	StateRejected:           {},
	StateLeftCompany:        {},
}

// targetStates maps each action to the state it produces.
var targetStates = map[Action]State{
	ActionScheduleInterview: StateInterviewScheduled,
	ActionSelect:            StateSelected,
	ActionReject:            StateRejected,
	ActionMarkLeftCompany:   StateLeftCompany,
}

// Labels for display.
var stateLabels = map[State]string{
	StateToReview:           "To Review",
	StateInterviewScheduled: "Interview Scheduled",
	StateSelected:           "Selected",
	StateJoined:             "Joined",
	StateRejected:           "Rejected",
	StateLeftCompany:        "Left Company",
}

// Valid reports whether s is one of the six pipeline states.
func (s State) Valid() bool {
	_, ok := allowedActions[s]
	return ok
}

// Label returns a human-facing name for s.
func (s State) Label() string {
	if l, ok := stateLabels[s]; ok {
		return l
	}
	return string(s)
}

// Terminal reports whether no action can be taken from s.
func (s State) Terminal() bool {
	return len(transitions[s]) == 0 && s.Valid()
}

// AllowedActions returns the set of actions legal from state s. It is total
// over the six states and returns the empty set for terminal states and for
// unknown input.
func AllowedActions(s State) []Action {
	actions, ok := allowedActions[s]
	if !ok {
		return nil
	}
	out := make([]Action, len(actions))
	copy(out, actions)
	return out
}

// IsValidTransition reports whether a candidate may move from one state to
// another. Terminal states return false for every target.
func IsValidTransition(from, to State) bool {
	for _, t := range transitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// TargetState resolves the state an action produces when taken from the
// given state. It fails with common.ErrInvalidAction when the action is not
// listed as applicable from that state.
func TargetState(action Action, from State) (State, error) {
	for _, a := range allowedActions[from] {
		if a == action {
			return targetStates[action], nil
		}
	}
	return "", fmt.Errorf("%w: %s from %s", common.ErrInvalidAction, action, from)
}
