package pipeline

import (
	"errors"
	"testing"

	"github.com/dmitrijs2005/talentdesk/internal/common"
	"github.com/stretchr/testify/require"
)

func TestAllowedActionsTable(t *testing.T) {
	tests := []struct {
		state State
		want  []Action
	}{
		{StateToReview, []Action{ActionScheduleInterview, ActionSelect, ActionReject}},
		{StateInterviewScheduled, []Action{ActionScheduleInterview, ActionSelect, ActionReject}},
		{StateSelected, []Action{ActionReject}},
		{StateJoined, []Action{ActionMarkLeftCompany}},
		{StateRejected, []Action{}},
		{StateLeftCompany, []Action{}},
	}

	require.Len(t, tests, len(States), "every state must be covered")

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			require.Equal(t, tt.want, AllowedActions(tt.state))
		})
	}
}

func TestAllowedActionsUnknownState(t *testing.T) {
	require.Nil(t, AllowedActions(State("ARCHIVED")))
}

func TestIsValidTransition(t *testing.T) {
	valid := map[State][]State{
		StateToReview:           {StateInterviewScheduled, StateSelected, StateRejected},
		StateInterviewScheduled: {StateInterviewScheduled, StateSelected, StateRejected},
		StateSelected:           {StateJoined, StateRejected},
		StateJoined:             {StateLeftCompany},
	}

	for _, from := range States {
		for _, to := range States {
			want := false
			for _, v := range valid[from] {
				if v == to {
					want = true
				}
			}
			require.Equal(t, want, IsValidTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestTerminalStatesHaveNoTransitions(t *testing.T) {
	for _, terminal := range []State{StateRejected, StateLeftCompany} {
		require.True(t, terminal.Terminal())
		for _, to := range States {
			require.False(t, IsValidTransition(terminal, to))
		}
	}
	require.False(t, StateToReview.Terminal())
}

func TestTargetState(t *testing.T) {
	tests := []struct {
		action  Action
		from    State
		want    State
		wantErr bool
	}{
		{ActionScheduleInterview, StateToReview, StateInterviewScheduled, false},
		{ActionScheduleInterview, StateInterviewScheduled, StateInterviewScheduled, false},
		{ActionSelect, StateToReview, StateSelected, false},
		{ActionSelect, StateInterviewScheduled, StateSelected, false},
		{ActionReject, StateToReview, StateRejected, false},
		{ActionReject, StateSelected, StateRejected, false},
		{ActionMarkLeftCompany, StateJoined, StateLeftCompany, false},
		{ActionMarkLeftCompany, StateToReview, "", true},
		{ActionSelect, StateSelected, "", true},
		{ActionSelect, StateRejected, "", true},
		{ActionScheduleInterview, StateJoined, "", true},
		{ActionReject, StateLeftCompany, "", true},
	}

	for _, tt := range tests {
		got, err := TargetState(tt.action, tt.from)
		if tt.wantErr {
			require.True(t, errors.Is(err, common.ErrInvalidAction), "%s from %s", tt.action, tt.from)
			continue
		}
		require.NoError(t, err)
		require.Equal(t, tt.want, got)
	}
}

func TestAllowedActionsMatchTargetReachability(t *testing.T) {
	// The per-state action set must equal the set of actions whose target
	// state is reachable from that state via the transition table.
	for _, from := range States {
		offered := AllowedActions(from)
		for _, a := range offered {
			target, err := TargetState(a, from)
			require.NoError(t, err)
			require.True(t, IsValidTransition(from, target), "%s offered from %s but %s -> %s is illegal", a, from, from, target)
		}
	}
}

func TestStateForApplicationStatus(t *testing.T) {
	tests := []struct {
		status string
		want   State
		known  bool
	}{
		{AppStatusReceived, StateToReview, true},
		{AppStatusScreening, StateToReview, true},
		{AppStatusInterviewScheduled, StateInterviewScheduled, true},
		{AppStatusInterviewed, StateInterviewScheduled, true},
		{AppStatusOfferMade, StateSelected, true},
		{AppStatusHired, StateJoined, true},
		{AppStatusRejected, StateRejected, true},
		{AppStatusWithdrawn, StateRejected, true},
		{"ON_HOLD", StateToReview, false},
		{"", StateToReview, false},
	}

	for _, tt := range tests {
		got, known := StateForApplicationStatus(tt.status)
		require.Equal(t, tt.want, got, tt.status)
		require.Equal(t, tt.known, known, tt.status)
	}
}

func TestStateForCandidateStatus(t *testing.T) {
	tests := []struct {
		status string
		want   State
		known  bool
	}{
		{CandidateStatusActive, StateToReview, true},
		{CandidateStatusInactive, StateRejected, true},
		{CandidateStatusLeft, StateLeftCompany, true},
		{CandidateStatusHired, StateJoined, true},
		{CandidateStatusRejected, StateRejected, true},
		{"DRAFT", StateToReview, false},
	}

	for _, tt := range tests {
		got, known := StateForCandidateStatus(tt.status)
		require.Equal(t, tt.want, got, tt.status)
		require.Equal(t, tt.known, known, tt.status)
	}
}

func TestApplicationStatusForAction(t *testing.T) {
	s, ok := ApplicationStatusForAction(ActionScheduleInterview)
	require.True(t, ok)
	require.Equal(t, AppStatusInterviewScheduled, s)

	s, ok = ApplicationStatusForAction(ActionSelect)
	require.True(t, ok)
	require.Equal(t, AppStatusOfferMade, s)

	s, ok = ApplicationStatusForAction(ActionReject)
	require.True(t, ok)
	require.Equal(t, AppStatusRejected, s)

	_, ok = ApplicationStatusForAction(ActionMarkLeftCompany)
	require.False(t, ok)
}
