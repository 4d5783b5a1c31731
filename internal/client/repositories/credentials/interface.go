// Package credentials persists the session credential across portal
// restarts, so a still-valid token survives a program exit.
package credentials

import (
	"context"
	"time"
)

// Record is the persisted session credential.
type Record struct {
	Token   string
	Email   string
	SavedAt time.Time
}

// Repository stores at most one credential record.
type Repository interface {
	// Load returns the stored credential, or (nil, nil) when none is stored.
	Load(ctx context.Context) (*Record, error)

	// Save replaces the stored credential.
	Save(ctx context.Context, rec Record) error

	// Clear removes the stored credential. Clearing an empty store is not
	// an error.
	Clear(ctx context.Context) error
}
