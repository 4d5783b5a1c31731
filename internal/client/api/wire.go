package api

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/talentdesk/internal/client/models"
)

// Wire shapes as the backend sends them. Skills and experience arrive as
// loosely shaped JSONB columns and need tolerant decoding.

type candidateResponse struct {
	ID          string          `json:"id"`
	ClientID    string          `json:"client_id"`
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	Phone       string          `json:"phone"`
	Location    string          `json:"location"`
	Skills      json.RawMessage `json:"skills"`
	Experience  json.RawMessage `json:"experience"`
	CTCCurrent  *float64        `json:"ctc_current"`
	CTCExpected *float64        `json:"ctc_expected"`
	Status      string          `json:"status"`
	Remark      string          `json:"remark"`
	ResumeURL   string          `json:"resume_url"`
	CreatedAt   string          `json:"created_at"`
	UpdatedAt   string          `json:"updated_at"`
}

type applicationResponse struct {
	ID               string             `json:"id"`
	CandidateID      string             `json:"candidate_id"`
	ClientID         string             `json:"client_id"`
	JobTitle         string             `json:"job_title"`
	ApplicationDate  string             `json:"application_date"`
	Status           string             `json:"status"`
	FlaggedForReview bool               `json:"flagged_for_review"`
	FlagReason       string             `json:"flag_reason"`
	IsDeleted        bool               `json:"is_deleted"`
	CreatedAt        string             `json:"created_at"`
	UpdatedAt        string             `json:"updated_at"`
	Candidate        *candidateResponse `json:"candidate"`
}

type identityResponse struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	ClientID   string `json:"client_id"`
	ClientName string `json:"client_name"`
	CreatedAt  string `json:"created_at"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// errorBody covers both the structured error shape and the bare FastAPI
// {"detail": "..."} format.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

// parseWireTime decodes an RFC3339 timestamp, returning the zero time for
// empty or malformed input.
func parseWireTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// parseSkills extracts an ordered skill list from the JSONB skills column,
// which may be a plain array, an object with a "skills" array, or an
// arbitrary object whose keys are the skill names.
func parseSkills(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}

	var wrapped struct {
		Skills []string `json:"skills"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Skills != nil {
		return wrapped.Skills
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err == nil {
		keys := make([]string, 0, len(obj))
		for k := range obj {
			keys = append(keys, k)
		}
		return keys
	}
	return nil
}

// parseExperience extracts a summary string from the JSONB experience
// column: a plain string, an object with a "summary" field, or an object
// with a numeric "years" field.
func parseExperience(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var obj struct {
		Summary string   `json:"summary"`
		Years   *float64 `json:"years"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		if obj.Summary != "" {
			return obj.Summary
		}
		if obj.Years != nil {
			return fmt.Sprintf("%g years of experience", *obj.Years)
		}
	}
	return ""
}

func identityFromWire(w *identityResponse) *models.Identity {
	return &models.Identity{
		ID:         w.ID,
		Email:      w.Email,
		Role:       w.Role,
		ClientID:   w.ClientID,
		ClientName: w.ClientName,
		CreatedAt:  parseWireTime(w.CreatedAt),
	}
}
