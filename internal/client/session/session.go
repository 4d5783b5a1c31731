// Package session owns the authentication credential and its lifecycle:
// login, restore-and-validate on startup, expiry, revocation, and logout.
// Every other component asks this package for the current token instead of
// keeping a copy.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/talentdesk/internal/client/api"
	"github.com/dmitrijs2005/talentdesk/internal/client/models"
	"github.com/dmitrijs2005/talentdesk/internal/client/repositories/credentials"
	"github.com/dmitrijs2005/talentdesk/internal/common"
	"github.com/dmitrijs2005/talentdesk/internal/logging"
)

// Status is the session's authentication state.
type Status string

const (
	StatusAnonymous     Status = "anonymous"
	StatusValidating    Status = "validating"
	StatusAuthenticated Status = "authenticated"
)

// Tokens without a parseable exp claim are assumed to live this long.
const fallbackTokenTTL = 24 * time.Hour

// Store holds the session credential and identity. It implements
// api.TokenSource, so the gateway and live channel always read the current
// token through it.
type Store struct {
	gateway api.Gateway
	creds   credentials.Repository
	log     logging.Logger
	now     func() time.Time

	// OnExpired, when set, is called once each time a session ends without
	// an explicit logout (expiry or revocation). Called from whichever
	// goroutine detected it; must not block.
	OnExpired func()

	mu        sync.RWMutex
	status    Status
	token     string
	expiresAt time.Time
	identity  *models.Identity
}

// New builds a session store. creds may be nil when persistence is disabled
// (demo mode).
func New(gateway api.Gateway, creds credentials.Repository, log logging.Logger) *Store {
	return &Store{
		gateway: gateway,
		creds:   creds,
		log:     log,
		now:     time.Now,
		status:  StatusAnonymous,
	}
}

// Token returns the current bearer token, empty when anonymous.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Status returns the current authentication state.
func (s *Store) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Identity returns the authenticated user, nil when not authenticated.
func (s *Store) Identity() *models.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity
}

// ExpiresAt returns the current token's expiry instant, zero when anonymous.
func (s *Store) ExpiresAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expiresAt
}

// Init restores a persisted credential, if any, and validates it against the
// backend. Without a stored credential the session starts anonymous. A
// transport failure leaves the restored credential in place, still in the
// validating state, so a later ValidateToken can finish the job.
func (s *Store) Init(ctx context.Context) error {
	if s.creds == nil {
		return nil
	}

	rec, err := s.creds.Load(ctx)
	if err != nil {
		s.log.Warn(ctx, "could not restore session credential", "error", err)
		return nil
	}
	if rec == nil || rec.Token == "" {
		return nil
	}

	s.mu.Lock()
	s.token = rec.Token
	s.expiresAt = tokenExpiry(rec.Token, s.now())
	s.status = StatusValidating
	s.mu.Unlock()

	return s.ValidateToken(ctx)
}

// Login exchanges credentials for a token, resolves the identity behind it,
// and persists the credential. On any failure the session is left anonymous.
func (s *Store) Login(ctx context.Context, username, password string) error {
	token, err := s.gateway.Login(ctx, username, password)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.token = token
	s.expiresAt = tokenExpiry(token, s.now())
	s.status = StatusValidating
	s.mu.Unlock()

	identity, err := s.gateway.Identity(ctx)
	if err != nil {
		s.clear()
		return fmt.Errorf("resolving identity after login: %w", err)
	}

	s.mu.Lock()
	s.identity = identity
	s.status = StatusAuthenticated
	s.mu.Unlock()

	s.persist(ctx, token, identity.Email)
	return nil
}

// ValidateToken checks the current token against the backend and settles the
// session into authenticated or anonymous. It is idempotent: validating an
// already-authenticated session just refreshes the identity.
//
// Rejections are classified: an expired exp claim yields
// common.ErrTokenExpired, a revocation code yields common.ErrTokenRevoked,
// anything else common.ErrTokenInvalid. All three clear the credential. A
// transport failure clears nothing and is returned as is.
func (s *Store) ValidateToken(ctx context.Context) error {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()
	if token == "" {
		return nil
	}

	identity, err := s.gateway.Identity(ctx)
	if err == nil {
		s.mu.Lock()
		s.identity = identity
		s.status = StatusAuthenticated
		s.mu.Unlock()
		return nil
	}

	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		// Transport failure: the token may well still be good.
		return err
	}
	if apiErr.HTTPStatus != http.StatusUnauthorized && apiErr.HTTPStatus != http.StatusForbidden {
		return err
	}

	reason := common.ErrTokenInvalid
	switch {
	case apiErr.Code == api.CodeTokenRevoked:
		reason = common.ErrTokenRevoked
	case !s.ExpiresAt().IsZero() && !s.now().Before(s.ExpiresAt()):
		reason = common.ErrTokenExpired
	}

	s.log.Info(ctx, "session credential rejected", "reason", reason)
	s.clear()
	s.clearPersisted(ctx)
	return reason
}

// Logout ends the session unconditionally: the credential is dropped locally
// and from the persistent cache before Logout returns, regardless of errors.
func (s *Store) Logout(ctx context.Context) {
	s.clear()
	s.clearPersisted(ctx)
}

// StartExpiryWatcher periodically compares the token expiry against the
// clock and expires the session locally without waiting for the backend to
// reject a request. Blocks until the context ends.
func (s *Store) StartExpiryWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.checkExpiry(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (s *Store) checkExpiry(ctx context.Context) {
	s.mu.RLock()
	expired := s.status == StatusAuthenticated && !s.expiresAt.IsZero() && !s.now().Before(s.expiresAt)
	s.mu.RUnlock()
	if !expired {
		return
	}

	s.log.Info(ctx, "session expired")
	s.clear()
	s.clearPersisted(ctx)
	if s.OnExpired != nil {
		s.OnExpired()
	}
}

func (s *Store) clear() {
	s.mu.Lock()
	s.token = ""
	s.identity = nil
	s.expiresAt = time.Time{}
	s.status = StatusAnonymous
	s.mu.Unlock()
}

func (s *Store) persist(ctx context.Context, token, email string) {
	if s.creds == nil {
		return
	}
	rec := credentials.Record{Token: token, Email: email, SavedAt: s.now()}
	if err := s.creds.Save(ctx, rec); err != nil {
		s.log.Warn(ctx, "could not persist session credential", "error", err)
	}
}

func (s *Store) clearPersisted(ctx context.Context) {
	if s.creds == nil {
		return
	}
	if err := s.creds.Clear(ctx); err != nil {
		s.log.Warn(ctx, "could not clear persisted session credential", "error", err)
	}
}

// tokenExpiry extracts the exp claim without verifying the signature; the
// backend is the authority on validity, the claim only schedules the local
// expiry check. Tokens that do not parse as JWTs (demo tokens) get the
// fallback TTL.
func tokenExpiry(token string, now time.Time) time.Time {
	claims := &jwt.RegisteredClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err == nil {
		if claims.ExpiresAt != nil {
			return claims.ExpiresAt.Time
		}
	}
	return now.Add(fallbackTokenTTL)
}
