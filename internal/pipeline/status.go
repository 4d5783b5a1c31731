package pipeline

// Backend application status strings. The backend tracks a wider pipeline
// than the portal exposes, so several statuses collapse into one state.
const (
	AppStatusReceived           = "RECEIVED"
	AppStatusScreening          = "SCREENING"
	AppStatusInterviewScheduled = "INTERVIEW_SCHEDULED"
	AppStatusInterviewed        = "INTERVIEWED"
	AppStatusOfferMade          = "OFFER_MADE"
	AppStatusHired              = "HIRED"
	AppStatusRejected           = "REJECTED"
	AppStatusWithdrawn          = "WITHDRAWN"
)

// Backend candidate status strings.
const (
	CandidateStatusActive   = "ACTIVE"
	CandidateStatusInactive = "INACTIVE"
	CandidateStatusLeft     = "LEFT"
	CandidateStatusHired    = "HIRED"
	CandidateStatusRejected = "REJECTED"
)

var appStatusStates = map[string]State{
	AppStatusReceived:           StateToReview,
	AppStatusScreening:          StateToReview,
	AppStatusInterviewScheduled: StateInterviewScheduled,
	AppStatusInterviewed:        StateInterviewScheduled,
	AppStatusOfferMade:          StateSelected,
	AppStatusHired:              StateJoined,
	AppStatusRejected:           StateRejected,
	AppStatusWithdrawn:          StateRejected,
}

var candidateStatusStates = map[string]State{
	CandidateStatusActive:   StateToReview,
	CandidateStatusInactive: StateRejected,
	CandidateStatusLeft:     StateLeftCompany,
	CandidateStatusHired:    StateJoined,
	CandidateStatusRejected: StateRejected,
}

// actionAppStatuses maps each client action to the backend application
// status it writes. MARK_LEFT_COMPANY is absent: departure is recorded on
// the candidate record, not the application.
var actionAppStatuses = map[Action]string{
	ActionScheduleInterview: AppStatusInterviewScheduled,
	ActionSelect:            AppStatusOfferMade,
	ActionReject:            AppStatusRejected,
}

// StateForApplicationStatus maps a backend application status to a pipeline
// state. Unknown statuses fall back to TO_REVIEW with ok=false so callers
// can log the data-quality event instead of defaulting silently.
func StateForApplicationStatus(status string) (State, bool) {
	if s, ok := appStatusStates[status]; ok {
		return s, true
	}
	return StateToReview, false
}

// StateForCandidateStatus maps a backend candidate status to a pipeline
// state, with the same fallback contract as StateForApplicationStatus.
func StateForCandidateStatus(status string) (State, bool) {
	if s, ok := candidateStatusStates[status]; ok {
		return s, true
	}
	return StateToReview, false
}

// ApplicationStatusForAction returns the backend application status an
// action is transported as, and whether the action has an application-status
// step at all.
func ApplicationStatusForAction(a Action) (string, bool) {
	s, ok := actionAppStatuses[a]
	return s, ok
}
