// Package hooks provides the subscribe/trigger event surface used by store
// instances to announce changes without owning a dispatch framework.
//
// Each event kind is represented by one Hook value with three entry points:
// On registers a handler and returns a token, Off removes a handler by its
// token, and Trigger delivers a payload to every registered handler in
// registration order. Delivery is synchronous; there is no queueing and no
// parallelism. Cross-cutting ordering or buffering semantics belong to the
// caller.
package hooks

import (
	"sync"

	"github.com/google/uuid"
)

// Token identifies one handler registration. Tokens are unique per process
// and are the only way to deregister a handler, since Go functions are not
// comparable.
type Token string

// Hook is a single named event: a set of handlers for payloads of type T.
// The zero value is not usable; create hooks with New.
type Hook[T any] struct {
	mu       sync.Mutex
	order    []Token
	handlers map[Token]func(T)
	once     map[Token]bool
}

// New creates an empty hook.
func New[T any]() *Hook[T] {
	return &Hook[T]{
		handlers: make(map[Token]func(T)),
		once:     make(map[Token]bool),
	}
}

// On registers a handler and returns its removal token.
func (h *Hook[T]) On(fn func(T)) Token {
	return h.register(fn, false)
}

// Once registers a handler that is removed after its first delivery.
func (h *Hook[T]) Once(fn func(T)) Token {
	return h.register(fn, true)
}

func (h *Hook[T]) register(fn func(T), once bool) Token {
	h.mu.Lock()
	defer h.mu.Unlock()

	tok := Token(uuid.NewString())
	h.order = append(h.order, tok)
	h.handlers[tok] = fn
	if once {
		h.once[tok] = true
	}
	return tok
}

// Off removes the handler registered under tok. It reports whether a
// handler was actually removed, so callers can unsubscribe idempotently.
func (h *Hook[T]) Off(tok Token) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.remove(tok)
}

// remove deletes tok from all bookkeeping. Caller holds h.mu.
func (h *Hook[T]) remove(tok Token) bool {
	if _, ok := h.handlers[tok]; !ok {
		return false
	}
	delete(h.handlers, tok)
	delete(h.once, tok)
	for i, t := range h.order {
		if t == tok {
			h.order = append(h.order[:i], h.order[i+1:]...)
			break
		}
	}
	return true
}

// Trigger delivers payload to every handler in registration order.
// Handlers registered with Once are removed before delivery, so a handler
// re-triggering the hook cannot run twice.
func (h *Hook[T]) Trigger(payload T) {
	h.mu.Lock()
	fns := make([]func(T), 0, len(h.order))
	for _, tok := range h.order {
		fns = append(fns, h.handlers[tok])
	}
	for tok := range h.once {
		h.remove(tok)
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn(payload)
	}
}

// Len returns the number of registered handlers.
func (h *Hook[T]) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handlers)
}

// Clear removes every handler.
func (h *Hook[T]) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.order = nil
	h.handlers = make(map[Token]func(T))
	h.once = make(map[Token]bool)
}
