// Package router dispatches OSC messages to handlers by address pattern.
//
// Patterns are '/' separated segments. A literal segment matches itself, a
// `{name}` segment matches any single segment and binds it to name, and a
// final `*` matches the remainder of the address, one or more segments.
//
// Routing walks a trie of segments and prefers, at every step, a literal child
// over the parameter child. A full match with a handler wins, otherwise the
// deepest wildcard passed on the way is used.
package router

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/luma/eosc/protocol"
)

const (
	Wildcard = "*"
)

var (
	ErrInvalidPattern  = errors.New("Route pattern is malformed, it must start with '/'")
	ErrWildcardNotLast = errors.New("Route pattern is malformed, '*' must be the final segment")
	ErrDuplicateRoute  = errors.New("Route is already registered")
	ErrParamConflict   = errors.New("Route parameter conflicts with a parameter at the same position")
	ErrNilHandler      = errors.New("Route handler is nil")
)

// Params holds the values bound by `{name}` segments.
type Params map[string]string

type Handler func(msg *protocol.Message, params Params)

type node struct {
	literals map[string]*node

	param     *node
	paramName string

	wildcard *node

	handler Handler
}

func newNode() *node {
	return &node{literals: make(map[string]*node)}
}

type Router struct {
	mu   sync.RWMutex
	root *node
}

func New() *Router {
	return &Router{root: newNode()}
}

// On registers handler for pattern.
func (r *Router) On(pattern string, handler Handler) error {
	if !strings.HasPrefix(pattern, "/") {
		return fmt.Errorf("'%s': %w", pattern, ErrInvalidPattern)
	}

	if handler == nil {
		return fmt.Errorf("'%s': %w", pattern, ErrNilHandler)
	}

	segments := protocol.SplitAddress(pattern)

	r.mu.Lock()
	defer r.mu.Unlock()

	// Validate the whole pattern before touching the trie so a rejected
	// pattern leaves no empty nodes behind
	n := r.root
	for i, segment := range segments {
		if segment == Wildcard && i != len(segments)-1 {
			return fmt.Errorf("'%s': %w", pattern, ErrWildcardNotLast)
		}

		if n == nil {
			continue
		}

		if name, ok := paramName(segment); ok && n.param != nil && n.paramName != name {
			return fmt.Errorf("'%s' binds {%s} where {%s} is already bound: %w",
				pattern, name, n.paramName, ErrParamConflict)
		}

		n = n.child(segment)
	}

	if n != nil && n.handler != nil {
		return fmt.Errorf("'%s': %w", pattern, ErrDuplicateRoute)
	}

	n = r.root
	for _, segment := range segments {
		n = n.ensureChild(segment)
	}

	n.handler = handler

	return nil
}

// MustOn is On that panics on error, it returns the router so registrations
// can be chained.
func (r *Router) MustOn(pattern string, handler Handler) *Router {
	if err := r.On(pattern, handler); err != nil {
		panic(err)
	}

	return r
}

// Route invokes at most one handler for msg. It returns false if no route
// matched.
func (r *Router) Route(msg *protocol.Message) bool {
	handler, params := r.match(protocol.SplitAddress(msg.Address))
	if handler == nil {
		return false
	}

	// Called without the lock so handlers may register routes or route messages
	handler(msg, params)

	return true
}

type binding struct {
	name  string
	value string
}

func (r *Router) match(segments []string) (Handler, Params) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var (
		bindings []binding

		fallback         Handler
		fallbackBindings int
	)

	n := r.root
	matched := true

	for _, segment := range segments {
		// segments[i:] is not empty, so a wildcard here has something to match
		if n.wildcard != nil {
			fallback = n.wildcard.handler
			fallbackBindings = len(bindings)
		}

		if next, ok := n.literals[segment]; ok {
			n = next
			continue
		}

		if n.param != nil {
			bindings = append(bindings, binding{name: n.paramName, value: segment})
			n = n.param
			continue
		}

		matched = false
		break
	}

	if matched && n.handler != nil {
		return n.handler, toParams(bindings)
	}

	if fallback != nil {
		return fallback, toParams(bindings[:fallbackBindings])
	}

	return nil, nil
}

func toParams(bindings []binding) Params {
	params := make(Params, len(bindings))
	for _, b := range bindings {
		params[b.name] = b.value
	}

	return params
}

// child returns the existing child for a pattern segment, or nil.
func (n *node) child(segment string) *node {
	if segment == Wildcard {
		return n.wildcard
	}

	if _, ok := paramName(segment); ok {
		return n.param
	}

	return n.literals[segment]
}

func (n *node) ensureChild(segment string) *node {
	if segment == Wildcard {
		if n.wildcard == nil {
			n.wildcard = newNode()
		}
		return n.wildcard
	}

	if name, ok := paramName(segment); ok {
		if n.param == nil {
			n.param = newNode()
			n.paramName = name
		}
		return n.param
	}

	child, ok := n.literals[segment]
	if !ok {
		child = newNode()
		n.literals[segment] = child
	}

	return child
}

func paramName(segment string) (string, bool) {
	if len(segment) > 2 && segment[0] == '{' && segment[len(segment)-1] == '}' {
		return segment[1 : len(segment)-1], true
	}

	return "", false
}
