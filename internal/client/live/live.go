// Package live maintains the server-sent-events subscription that keeps the
// candidate cache current between explicit refreshes. The channel is an
// optimization: every piece of data it delivers is also obtainable through
// the gateway, so a broken channel degrades freshness, never correctness.
package live

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/dmitrijs2005/talentdesk/internal/client/api"
	"github.com/dmitrijs2005/talentdesk/internal/logging"
)

// EventType names a server-sent event on the live channel.
type EventType string

const (
	EventConnectionEstablished EventType = "connection_established"
	EventCandidateStatusChange EventType = "candidate_status_change"
	EventInterviewScheduled    EventType = "interview_scheduled"
	EventFeedbackSubmitted     EventType = "feedback_submitted"
	EventCandidateCreated      EventType = "candidate_created"
)

// Event is a parsed live notification. Payload fields not sent for a given
// event type stay zero.
type Event struct {
	Type EventType `json:"-"`

	CandidateID    string    `json:"candidateId"`
	ApplicationID  string    `json:"applicationId"`
	NewStatus      string    `json:"newStatus"`
	PreviousStatus string    `json:"previousStatus"`
	Timestamp      time.Time `json:"timestamp"`
}

// ConnState is the channel's connection status, surfaced to the UI.
type ConnState string

const (
	StateDisconnected ConnState = "disconnected"
	StateConnecting   ConnState = "connecting"
	StateConnected    ConnState = "connected"
)

// LinearBackoff returns a backoff whose n-th delay is n times the base
// interval. It never stops on its own; cap it with retry.WithMaxRetries.
func LinearBackoff(base time.Duration) retry.Backoff {
	var attempt int
	return retry.BackoffFunc(func() (time.Duration, bool) {
		attempt++
		return time.Duration(attempt) * base, false
	})
}

// Channel subscribes to the backend event stream and dispatches parsed
// events to a handler. On connection loss it retries with linear backoff up
// to a retry ceiling, then stays disconnected until Reconnect is called.
type Channel struct {
	url     string
	tokens  api.TokenSource
	client  *http.Client
	log     logging.Logger
	onEvent func(Event)
	onState func(ConnState)

	base       time.Duration
	maxRetries uint64
	sleep      func(context.Context, time.Duration) error

	mu     sync.Mutex
	state  ConnState
	cancel context.CancelFunc
	done   chan struct{}
}

// Options configures a Channel. OnEvent and OnState are invoked from the
// channel's own goroutine and must not block.
type Options struct {
	URL        string // full events endpoint, e.g. http://host/api/events/stream
	Tokens     api.TokenSource
	Client     *http.Client
	Logger     logging.Logger
	OnEvent    func(Event)
	OnState    func(ConnState)
	Base       time.Duration // backoff base interval
	MaxRetries uint64        // consecutive failures before giving up
}

func NewChannel(opts Options) *Channel {
	client := opts.Client
	if client == nil {
		// Streaming responses must not be cut off by a client timeout.
		client = &http.Client{}
	}
	base := opts.Base
	if base <= 0 {
		base = 5 * time.Second
	}
	maxRetries := opts.MaxRetries
	if maxRetries == 0 {
		maxRetries = 5
	}
	ch := &Channel{
		url:        opts.URL,
		tokens:     opts.Tokens,
		client:     client,
		log:        opts.Logger,
		onEvent:    opts.OnEvent,
		onState:    opts.OnState,
		base:       base,
		maxRetries: maxRetries,
		state:      StateDisconnected,
	}
	ch.sleep = func(ctx context.Context, d time.Duration) error {
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			return nil
		}
	}
	return ch
}

// State returns the current connection status.
func (ch *Channel) State() ConnState {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	return ch.state
}

func (ch *Channel) setState(s ConnState) {
	ch.mu.Lock()
	changed := ch.state != s
	ch.state = s
	ch.mu.Unlock()
	if changed && ch.onState != nil {
		ch.onState(s)
	}
}

// Start opens the subscription. It returns immediately; the connection loop
// runs until the context ends, Stop is called, or the retry ceiling is hit.
func (ch *Channel) Start(ctx context.Context) {
	ch.mu.Lock()
	if ch.cancel != nil {
		ch.mu.Unlock()
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	ch.cancel = cancel
	ch.done = done
	ch.mu.Unlock()

	go ch.run(runCtx, done)
}

// Stop closes the subscription and waits for the connection loop to exit.
func (ch *Channel) Stop() {
	ch.mu.Lock()
	cancel, done := ch.cancel, ch.done
	ch.cancel, ch.done = nil, nil
	ch.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Reconnect restarts the subscription with a fresh retry budget. This is the
// manual recovery path after the channel has given up.
func (ch *Channel) Reconnect(ctx context.Context) {
	ch.Stop()
	ch.Start(ctx)
}

func (ch *Channel) newBackoff() retry.Backoff {
	return retry.WithMaxRetries(ch.maxRetries, LinearBackoff(ch.base))
}

func (ch *Channel) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	defer ch.setState(StateDisconnected)

	backoff := ch.newBackoff()
	for {
		ch.setState(StateConnecting)
		connected, err := ch.stream(ctx)
		if ctx.Err() != nil {
			return
		}
		if connected {
			// A successful connection resets the retry budget.
			backoff = ch.newBackoff()
		}

		delay, stop := backoff.Next()
		if stop {
			ch.log.Warn(ctx, "live channel giving up after repeated failures", "retries", ch.maxRetries)
			return
		}
		ch.log.Info(ctx, "live channel reconnecting", "delay", delay, "error", err)
		if err := ch.sleep(ctx, delay); err != nil {
			return
		}
	}
}

// stream opens one SSE connection and reads events until it breaks. The
// first return value reports whether the connection was ever established.
func (ch *Channel) stream(ctx context.Context) (bool, error) {
	u, err := url.Parse(ch.url)
	if err != nil {
		return false, err
	}
	q := u.Query()
	if token := ch.tokens.Token(); token != "" {
		// The browser EventSource API cannot set headers, so the backend
		// accepts the credential as a query parameter here.
		q.Set("token", token)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := ch.client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("event stream returned status %d", resp.StatusCode)
	}

	ch.setState(StateConnected)
	ch.log.Debug(ctx, "live channel connected", "url", ch.url)

	return true, ch.read(ctx, bufio.NewReader(resp.Body))
}

// read parses the SSE wire format: "event:" and "data:" lines accumulate
// until a blank line dispatches the pair. Unknown event types are dropped.
func (ch *Channel) read(ctx context.Context, r *bufio.Reader) error {
	var eventName, data string
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return err
		}
		line = strings.TrimRight(line, "\r\n")

		switch {
		case line == "":
			if eventName != "" || data != "" {
				ch.dispatch(ctx, eventName, data)
			}
			eventName, data = "", ""
		case strings.HasPrefix(line, "event:"):
			eventName = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data = strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		case strings.HasPrefix(line, ":"):
			// Comment line, used by servers as a keep-alive.
		}
	}
}

func (ch *Channel) dispatch(ctx context.Context, name, data string) {
	switch EventType(name) {
	case EventConnectionEstablished, EventCandidateStatusChange,
		EventInterviewScheduled, EventFeedbackSubmitted, EventCandidateCreated:
	default:
		ch.log.Debug(ctx, "live channel dropping unknown event", "event", name)
		return
	}

	ev := Event{Type: EventType(name)}
	if data != "" {
		if err := json.Unmarshal([]byte(data), &ev); err != nil {
			ch.log.Warn(ctx, "live channel dropping malformed event payload", "event", name, "error", err)
			return
		}
	}
	if ch.onEvent != nil {
		ch.onEvent(ev)
	}
}
