package runtime

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"sort"
	"sync"

	"github.com/samber/lo"
)

// Registry maps each connected user name to its delivery path.
// A name is held by at most one sink at a time.
type Registry struct {
	mu       sync.RWMutex
	sessions map[domain.UserName]contract.EventSink
	closed   bool
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[domain.UserName]contract.EventSink),
	}
}

// Register associates name with sink.
// A previous sink under the same name is silently replaced and left open,
// the returned flag tells whether that happened.
// Once CloseAll ran, the sink is closed right away instead of being registered.
func (r *Registry) Register(name domain.UserName, sink contract.EventSink) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		closeSink(sink)
		return false
	}
	_, replaced := r.sessions[name]
	r.sessions[name] = sink
	return replaced
}

// Unregister removes name whatever sink it points to. Unknown names are ignored.
func (r *Registry) Unregister(name domain.UserName) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, name)
}

// Remove deletes name only while it still points to sink.
// A session that was superseded by a newer connection under the same name
// must not evict its successor when it ends.
func (r *Registry) Remove(name domain.UserName, sink contract.EventSink) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.sessions[name]
	if !ok || current != sink {
		return false
	}
	delete(r.sessions, name)
	return true
}

// Snapshot copies the current entries so callers can iterate without the lock.
func (r *Registry) Snapshot() []contract.Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]contract.Entry, 0, len(r.sessions))
	for name, sink := range r.sessions {
		entries = append(entries, contract.Entry{UserName: name, Sink: sink})
	}
	return entries
}

// Names returns the registered user names in lexical order.
func (r *Registry) Names() []domain.UserName {
	r.mu.RLock()
	names := lo.Keys(r.sessions)
	r.mu.RUnlock()

	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// CloseAll empties the registry for good and closes every sink able to be closed.
// Used on shutdown so that streaming sessions return and no new one starts.
func (r *Registry) CloseAll() int {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[domain.UserName]contract.EventSink)
	r.closed = true
	r.mu.Unlock()

	for _, sink := range sessions {
		closeSink(sink)
	}
	return len(sessions)
}

func closeSink(sink contract.EventSink) {
	if c, ok := sink.(interface{ Close() }); ok {
		c.Close()
	}
}
