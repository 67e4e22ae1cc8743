// Package relay orchestrates one inbound message end to end: read the
// history window, build the prompt, invoke the backend, persist the
// turn, return the reply.
package relay

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/stupiduntilnot/relaybot/internal/history"
	"github.com/stupiduntilnot/relaybot/internal/prompt"
)

// Store is the subset of the history store the relay needs.
type Store interface {
	Recent(userID int64, limit int) ([]history.Turn, error)
	Append(userID int64, input, output string) (int64, error)
}

// Replier converts a prompt into reply text, absorbing backend
// failures into a placeholder.
type Replier interface {
	Reply(ctx context.Context, instructions, prompt string) string
}

// Relay is stateless across messages except through the store. It is
// safe for concurrent use; messages from the same user are processed
// in arrival order.
type Relay struct {
	store        Store
	backend      Replier
	instructions string
	window       int
	log          *zap.SugaredLogger

	mu    sync.Mutex
	users map[int64]*sync.Mutex
}

// New creates a relay over the given store and backend.
func New(store Store, backend Replier, instructions string, window int, log *zap.SugaredLogger) *Relay {
	return &Relay{
		store:        store,
		backend:      backend,
		instructions: instructions,
		window:       window,
		log:          log,
		users:        make(map[int64]*sync.Mutex),
	}
}

// userLock returns the mutex serializing one user's exchanges.
func (r *Relay) userLock(userID int64) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.users[userID]
	if !ok {
		l = &sync.Mutex{}
		r.users[userID] = l
	}
	return l
}

// Handle processes one inbound message and returns the reply text.
// It always returns something to send: a history read failure degrades
// to an empty window, a backend failure yields the placeholder, and a
// persistence failure is logged without blocking the reply.
func (r *Relay) Handle(ctx context.Context, userID int64, text string) string {
	l := r.userLock(userID)
	l.Lock()
	defer l.Unlock()

	window, err := r.store.Recent(userID, r.window)
	if err != nil {
		r.log.Warnw("history read failed, treating as new user", "user_id", userID, "err", err)
		window = nil
	}

	p := prompt.Build(window, text)
	reply := r.backend.Reply(ctx, r.instructions, p)

	if _, err := r.store.Append(userID, text, reply); err != nil {
		r.log.Warnw("history write failed, reply still sent", "user_id", userID, "err", err)
	}
	return reply
}
