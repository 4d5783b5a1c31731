package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/talentdesk/internal/common"
)

// Free-text constraints shared by the action payloads.
const (
	MinNoteLength = 10
	MaxNoteLength = 1000
)

// RejectReason is the closed set of rejection reason codes.
type RejectReason string

const (
	RejectSkillMismatch          RejectReason = "skill_mismatch"
	RejectExperienceInsufficient RejectReason = "experience_insufficient"
	RejectCultureFit             RejectReason = "culture_fit"
	RejectSalaryExpectation      RejectReason = "salary_expectation"
	RejectOther                  RejectReason = "other"
)

var rejectReasonLabels = map[RejectReason]string{
	RejectSkillMismatch:          "Skills do not match requirements",
	RejectExperienceInsufficient: "Insufficient experience",
	RejectCultureFit:             "Culture fit concerns",
	RejectSalaryExpectation:      "Salary expectations mismatch",
	RejectOther:                  "Other reason",
}

func (r RejectReason) Valid() bool {
	_, ok := rejectReasonLabels[r]
	return ok
}

func (r RejectReason) Label() string {
	if l, ok := rejectReasonLabels[r]; ok {
		return l
	}
	return string(r)
}

// LeaveReason is the closed set of departure reason codes.
type LeaveReason string

const (
	LeaveResigned      LeaveReason = "resigned"
	LeaveTerminated    LeaveReason = "terminated"
	LeaveContractEnded LeaveReason = "contract_ended"
	LeaveOther         LeaveReason = "other"
)

var leaveReasonLabels = map[LeaveReason]string{
	LeaveResigned:      "Resigned voluntarily",
	LeaveTerminated:    "Employment terminated",
	LeaveContractEnded: "Contract period ended",
	LeaveOther:         "Other reason",
}

func (r LeaveReason) Valid() bool {
	_, ok := leaveReasonLabels[r]
	return ok
}

func (r LeaveReason) Label() string {
	if l, ok := leaveReasonLabels[r]; ok {
		return l
	}
	return string(r)
}

func validateNote(note string) error {
	trimmed := strings.TrimSpace(note)
	if len(trimmed) < MinNoteLength {
		return fmt.Errorf("%w: note must be at least %d characters", common.ErrValidation, MinNoteLength)
	}
	if len(trimmed) > MaxNoteLength {
		return fmt.Errorf("%w: note must be at most %d characters", common.ErrValidation, MaxNoteLength)
	}
	return nil
}

// ScheduleInterviewRequest asks to schedule (or re-schedule) an interview
// round for a candidate.
type ScheduleInterviewRequest struct {
	CandidateID string
	ScheduledAt time.Time
	Mode        InterviewMode
	Round       int
	Interviewer string
	Notes       string
}

// Validate checks the payload against the given current time. The scheduled
// instant must lie in the future.
func (r ScheduleInterviewRequest) Validate(now time.Time) error {
	if r.CandidateID == "" {
		return fmt.Errorf("%w: candidate id is required", common.ErrValidation)
	}
	if r.ScheduledAt.IsZero() {
		return fmt.Errorf("%w: interview date and time are required", common.ErrValidation)
	}
	if !r.ScheduledAt.After(now) {
		return fmt.Errorf("%w: interview must be scheduled in the future", common.ErrValidation)
	}
	if !r.Mode.Valid() {
		return fmt.Errorf("%w: unknown interview mode %q", common.ErrValidation, r.Mode)
	}
	if r.Round < 1 {
		return fmt.Errorf("%w: round number must be at least 1", common.ErrValidation)
	}
	return nil
}

// FeedbackRequest records structured feedback for a completed round.
type FeedbackRequest struct {
	CandidateID    string
	Round          int
	Rating         int
	Recommendation Recommendation
	Note           string
}

func (r FeedbackRequest) Validate() error {
	if r.CandidateID == "" {
		return fmt.Errorf("%w: candidate id is required", common.ErrValidation)
	}
	if r.Round < 1 {
		return fmt.Errorf("%w: round number must be at least 1", common.ErrValidation)
	}
	if r.Rating < 1 || r.Rating > 5 {
		return fmt.Errorf("%w: rating must be between 1 and 5", common.ErrValidation)
	}
	if !r.Recommendation.Valid() {
		return fmt.Errorf("%w: unknown recommendation %q", common.ErrValidation, r.Recommendation)
	}
	if strings.TrimSpace(r.Note) == "" {
		return fmt.Errorf("%w: feedback text is required", common.ErrValidation)
	}
	return nil
}

// RejectRequest rejects a candidate with a reason code and explanatory note.
type RejectRequest struct {
	CandidateID string
	Reason      RejectReason
	Note        string
}

func (r RejectRequest) Validate() error {
	if r.CandidateID == "" {
		return fmt.Errorf("%w: candidate id is required", common.ErrValidation)
	}
	if !r.Reason.Valid() {
		return fmt.Errorf("%w: unknown rejection reason %q", common.ErrValidation, r.Reason)
	}
	return validateNote(r.Note)
}

// LeftCompanyRequest marks a joined candidate as having left the company.
type LeftCompanyRequest struct {
	CandidateID     string
	Reason          LeaveReason
	Note            string
	LastWorkingDate *time.Time
}

// Validate checks the payload against the given current time; the last
// working date, when present, must not be later than today.
func (r LeftCompanyRequest) Validate(now time.Time) error {
	if r.CandidateID == "" {
		return fmt.Errorf("%w: candidate id is required", common.ErrValidation)
	}
	if !r.Reason.Valid() {
		return fmt.Errorf("%w: unknown departure reason %q", common.ErrValidation, r.Reason)
	}
	if err := validateNote(r.Note); err != nil {
		return err
	}
	if r.LastWorkingDate != nil {
		endOfToday := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location())
		if r.LastWorkingDate.After(endOfToday) {
			return fmt.Errorf("%w: last working date cannot be in the future", common.ErrValidation)
		}
	}
	return nil
}
