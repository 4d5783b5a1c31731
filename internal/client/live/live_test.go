package live

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/talentdesk/internal/client/api"
	"github.com/dmitrijs2005/talentdesk/internal/logging"
)

// instantSleep records every requested delay and returns immediately.
func instantSleep(sleeps *[]time.Duration, mu *sync.Mutex) func(context.Context, time.Duration) error {
	return func(ctx context.Context, d time.Duration) error {
		mu.Lock()
		*sleeps = append(*sleeps, d)
		mu.Unlock()
		return ctx.Err()
	}
}

func newTestChannel(t *testing.T, url string, onEvent func(Event)) *Channel {
	t.Helper()
	return NewChannel(Options{
		URL:        url,
		Tokens:     api.StaticToken("tok-123"),
		Logger:     logging.Discard(),
		OnEvent:    onEvent,
		Base:       time.Second,
		MaxRetries: 5,
	})
}

func TestLinearBackoffDelays(t *testing.T) {
	b := LinearBackoff(5 * time.Second)
	for i := 1; i <= 4; i++ {
		d, stop := b.Next()
		require.False(t, stop)
		require.Equal(t, time.Duration(i)*5*time.Second, d)
	}
}

func TestChannelDeliversEventsAndSendsTokenParam(t *testing.T) {
	var gotToken atomic.Value
	hold := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken.Store(r.URL.Query().Get("token"))
		w.Header().Set("Content-Type", "text/event-stream")
		fl := w.(http.Flusher)
		fmt.Fprint(w, "event: connection_established\ndata: {}\n\n")
		fmt.Fprint(w, ": keep-alive\n\n")
		fmt.Fprint(w, "event: something_new\ndata: {}\n\n")
		fmt.Fprint(w, "event: candidate_status_change\ndata: {\"candidateId\":\"c1\",\"newStatus\":\"OFFER_MADE\",\"previousStatus\":\"INTERVIEWED\"}\n\n")
		fl.Flush()
		<-hold
	}))
	defer srv.Close()
	defer close(hold)

	events := make(chan Event, 8)
	ch := newTestChannel(t, srv.URL, func(ev Event) { events <- ev })

	ch.Start(context.Background())
	defer ch.Stop()

	first := <-events
	require.Equal(t, EventConnectionEstablished, first.Type)

	// The unknown event type is dropped, so the next delivery is the
	// status change.
	second := <-events
	require.Equal(t, EventCandidateStatusChange, second.Type)
	require.Equal(t, "c1", second.CandidateID)
	require.Equal(t, "OFFER_MADE", second.NewStatus)
	require.Equal(t, "INTERVIEWED", second.PreviousStatus)

	require.Equal(t, "tok-123", gotToken.Load())
	require.Equal(t, StateConnected, ch.State())
}

func TestChannelGivesUpAfterRetryCeiling(t *testing.T) {
	var dials atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		dials.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	var mu sync.Mutex
	var sleeps []time.Duration

	ch := newTestChannel(t, srv.URL, nil)
	ch.sleep = instantSleep(&sleeps, &mu)

	ch.Start(context.Background())

	require.Eventually(t, func() bool {
		return ch.State() == StateDisconnected && dials.Load() == 6
	}, 5*time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []time.Duration{
		1 * time.Second, 2 * time.Second, 3 * time.Second, 4 * time.Second, 5 * time.Second,
	}, sleeps)
}

func TestBackoffResetsAfterSuccessfulConnect(t *testing.T) {
	var dials atomic.Int64
	hold := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch dials.Add(1) {
		case 1, 3:
			w.WriteHeader(http.StatusInternalServerError)
		case 2:
			// Connect, deliver nothing, drop the connection.
			w.Header().Set("Content-Type", "text/event-stream")
			w.(http.Flusher).Flush()
		default:
			w.Header().Set("Content-Type", "text/event-stream")
			w.(http.Flusher).Flush()
			<-hold
		}
	}))
	defer srv.Close()
	defer close(hold)

	var mu sync.Mutex
	var sleeps []time.Duration

	ch := newTestChannel(t, srv.URL, nil)
	ch.sleep = instantSleep(&sleeps, &mu)

	ch.Start(context.Background())
	defer ch.Stop()

	require.Eventually(t, func() bool { return dials.Load() >= 4 }, 5*time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	// Failure, success (budget reset), failure: the delay after the reset
	// starts over at the base interval.
	require.Equal(t, []time.Duration{1 * time.Second, 1 * time.Second, 2 * time.Second}, sleeps[:3])
}

func TestManualReconnectAfterGivingUp(t *testing.T) {
	var dials atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		dials.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	var mu sync.Mutex
	var sleeps []time.Duration

	ch := NewChannel(Options{
		URL:        srv.URL,
		Tokens:     api.StaticToken("t"),
		Logger:     logging.Discard(),
		Base:       time.Second,
		MaxRetries: 1,
	})
	ch.sleep = instantSleep(&sleeps, &mu)

	ch.Start(context.Background())
	require.Eventually(t, func() bool {
		return ch.State() == StateDisconnected && dials.Load() == 2
	}, 5*time.Second, 10*time.Millisecond)

	// The channel stays down until asked; a manual reconnect dials again
	// with a fresh retry budget.
	ch.Reconnect(context.Background())
	require.Eventually(t, func() bool { return dials.Load() == 4 }, 5*time.Second, 10*time.Millisecond)
	ch.Stop()
}

func TestStopIsIdempotent(t *testing.T) {
	hold := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.(http.Flusher).Flush()
		<-hold
	}))
	defer srv.Close()
	defer close(hold)

	ch := newTestChannel(t, srv.URL, nil)
	ch.Start(context.Background())
	ch.Stop()
	ch.Stop()
	require.Equal(t, StateDisconnected, ch.State())
}
