package syncd

import (
	"context"

	"github.com/ehrlich-b/go-syncd/internal/filetag"
	"github.com/ehrlich-b/go-syncd/internal/streamingwriter"
)

// Handler performs the actual fsync for one FileTag. Every registered
// handler kind must implement this. Grounded on sync.c's syncsw[]
// vtable entry for SyncFiletag.
//
// Sync must arrange for done to be called exactly once with the
// outcome of the fsync, whether that happens synchronously (e.g. the
// target file could not even be opened) or asynchronously, once w
// reports the submitted fsync's completion.
type Handler interface {
	Sync(ctx context.Context, w streamingwriter.Writer, in *InflightSync, done func(success bool, err error))
}

// Unlinker is the optional capability a Handler may also implement to
// participate in unlink processing (sync.c's unlink vtable entry). Not
// every handler supports this — e.g. CLOG never unlinks through this
// path.
type Unlinker interface {
	Unlink(tag filetag.Tag) error
}

// Matcher is the optional capability a Handler may also implement to
// support pattern-based cancellation (ForgetMatching), corresponding to
// sync.c's filetagmatches vtable entry.
type Matcher interface {
	Matches(pattern, candidate filetag.Tag) bool
}

// registry stores one Handler per filetag.HandlerKind, along with its
// optional Unlinker/Matcher capabilities discovered via type assertion
// at registration time. This is the idiomatic Go rendition of a tagged
// sum of handler kinds (spec.md §9): no nullable function-pointer
// struct, just an interface plus two optional ones.
type registry struct {
	handlers [filetag.NumHandlerKinds]Handler
	unlinker [filetag.NumHandlerKinds]Unlinker
	matcher  [filetag.NumHandlerKinds]Matcher
}

func newRegistry() *registry {
	return &registry{}
}

func (r *registry) register(kind filetag.HandlerKind, h Handler) {
	if !kind.Valid() {
		panic(&Error{Op: "RegisterHandler", Code: CodeStateCorruption, Msg: "invalid handler kind"})
	}
	r.handlers[kind] = h
	if u, ok := h.(Unlinker); ok {
		r.unlinker[kind] = u
	}
	if m, ok := h.(Matcher); ok {
		r.matcher[kind] = m
	}
}

func (r *registry) handlerFor(kind filetag.HandlerKind) Handler {
	return r.handlers[kind]
}

func (r *registry) unlinkerFor(kind filetag.HandlerKind) (Unlinker, bool) {
	u := r.unlinker[kind]
	return u, u != nil
}

func (r *registry) matcherFor(kind filetag.HandlerKind) (Matcher, bool) {
	m := r.matcher[kind]
	return m, m != nil
}
