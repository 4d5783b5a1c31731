// Package api implements the remote gateway to the review backend. It
// translates domain operations into HTTP calls and backend wire shapes into
// domain types, normalizing every failure into one of three outcome classes:
// a typed payload, a structured domain error, or a transport error.
package api

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/talentdesk/internal/client/models"
)

// Well-known domain error codes reported by the backend (or synthesized when
// the backend body carries no usable code).
const (
	CodeUnknown            = "UNKNOWN_ERROR"
	CodeNotFound           = "NOT_FOUND"
	CodeNoApplication      = "NO_APPLICATION"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeTokenRevoked       = "TOKEN_REVOKED"
)

// Error is a well-formed domain error reported by the backend. Transport
// failures are not represented as *Error; they wrap common.ErrUnavailable
// instead, so callers never branch on the absence of a field.
type Error struct {
	Code       string
	Message    string
	HTTPStatus int
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// TokenSource supplies the current bearer credential. An empty string means
// no credential is attached.
type TokenSource interface {
	Token() string
}

// StaticToken is a fixed-token TokenSource, useful for tests and one-off calls.
type StaticToken string

func (t StaticToken) Token() string { return string(t) }

// TokenFunc adapts a function to the TokenSource interface.
type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }

// Gateway is the typed contract to the review backend. Mutating operations
// are atomic from the caller's point of view: each concludes with a re-fetch
// of the authoritative candidate record, never a locally fabricated one.
type Gateway interface {
	// Login exchanges credentials for a bearer token.
	Login(ctx context.Context, username, password string) (string, error)

	// Identity resolves the authenticated user behind the current token.
	Identity(ctx context.Context) (*models.Identity, error)

	// FetchCandidates returns the candidate list visible to the session.
	FetchCandidates(ctx context.Context) ([]models.Candidate, error)

	// FetchCandidate returns one candidate's authoritative record.
	FetchCandidate(ctx context.Context, id string) (*models.Candidate, error)

	// FetchTimeline returns a candidate's timeline, oldest first.
	FetchTimeline(ctx context.Context, id string) ([]models.TimelineEvent, error)

	ScheduleInterview(ctx context.Context, req models.ScheduleInterviewRequest) (*models.Candidate, error)
	SubmitFeedback(ctx context.Context, req models.FeedbackRequest) (*models.Candidate, error)
	Select(ctx context.Context, candidateID string) (*models.Candidate, error)
	Reject(ctx context.Context, req models.RejectRequest) (*models.Candidate, error)
	MarkLeftCompany(ctx context.Context, req models.LeftCompanyRequest) (*models.Candidate, error)
}
