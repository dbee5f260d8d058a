package pos

import "sync"

// Registry hands out one Session per POS terminal. Sessions are process
// local; two terminals never share cart or roster state.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

func (r *Registry) Get(terminal string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[terminal]
	if !ok {
		s = NewSession()
		r.sessions[terminal] = s
	}
	return s
}

func (r *Registry) Drop(terminal string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, terminal)
}
