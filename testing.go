package syncd

import (
	"context"
	"sync"

	"github.com/ehrlich-b/go-syncd/internal/filetag"
	"github.com/ehrlich-b/go-syncd/internal/streamingwriter"
)

// MockHandler is a scriptable Handler/Unlinker/Matcher for tests. It
// lets a test control, per tag, how many times a Sync call should fail
// before succeeding, and tracks call counts for verification.
//
// Grounded on the teacher's MockBackend (testing.go): a mutex-guarded
// struct tracking call counts, with scriptable failure injection.
type MockHandler struct {
	mu sync.Mutex

	// FailuresBeforeSuccess, keyed by tag.String(), is how many times
	// Sync should report failure for that tag before it starts
	// succeeding. Tags absent from the map always succeed immediately.
	FailuresBeforeSuccess map[string]int
	// SyncErrno, keyed by tag.String(), overrides the error returned on
	// a scripted failure (defaults to a generic persistent I/O error).
	SyncErrno map[string]error

	syncCalls   map[string]int
	unlinkCalls map[string]int
	matchCalls  int

	supportsUnlink bool
	supportsMatch  bool
}

// NewMockHandler creates a MockHandler. The returned *MockHandler never
// implements Unlinker/Matcher itself; supportsUnlink/supportsMatch decide
// whether AsUnlinker/AsMatcher add those capabilities (checked via type
// assertion at registration), mirroring how CLOG/CommitTS/
// Multixact handlers have no unlink or matches entry in sync.c's
// syncsw[] table.
func NewMockHandler(supportsUnlink, supportsMatch bool) *MockHandler {
	return &MockHandler{
		FailuresBeforeSuccess: make(map[string]int),
		SyncErrno:             make(map[string]error),
		syncCalls:             make(map[string]int),
		unlinkCalls:           make(map[string]int),
		supportsUnlink:        supportsUnlink,
		supportsMatch:         supportsMatch,
	}
}

func (m *MockHandler) Sync(ctx context.Context, w streamingwriter.Writer, in *InflightSync, done func(success bool, err error)) {
	m.mu.Lock()
	key := in.Tag.String()
	m.syncCalls[key]++
	remaining := m.FailuresBeforeSuccess[key]
	if remaining > 0 {
		m.FailuresBeforeSuccess[key] = remaining - 1
		err := m.SyncErrno[key]
		if err == nil {
			err = NewError("Sync", CodePersistentIO, "mock scripted failure")
		}
		m.mu.Unlock()
		done(false, err)
		return
	}
	m.mu.Unlock()
	done(true, nil)
}

func (m *MockHandler) SyncCallCount(tag filetag.Tag) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.syncCalls[tag.String()]
}

// AsUnlinker/AsMatcher return wrapper types implementing Unlinker/
// Matcher only when the corresponding support flag was set, so that
// MockHandler itself never unconditionally satisfies those interfaces.
func (m *MockHandler) AsUnlinker() Handler {
	if !m.supportsUnlink {
		return m
	}
	return mockWithUnlink{m}
}

func (m *MockHandler) AsMatcher() Handler {
	if !m.supportsMatch {
		return m
	}
	return mockWithMatch{m}
}

func (m *MockHandler) AsUnlinkerAndMatcher() Handler {
	return mockWithBoth{m}
}

type mockWithUnlink struct{ *MockHandler }

func (m mockWithUnlink) Unlink(tag filetag.Tag) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unlinkCalls[tag.String()]++
	return nil
}

func (m *MockHandler) UnlinkCallCount(tag filetag.Tag) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.unlinkCalls[tag.String()]
}

type mockWithMatch struct{ *MockHandler }

func (m mockWithMatch) Matches(pattern, candidate filetag.Tag) bool {
	m.mu.Lock()
	m.matchCalls++
	m.mu.Unlock()
	return pattern.SameRelationFork(candidate)
}

type mockWithBoth struct{ *MockHandler }

func (m mockWithBoth) Unlink(tag filetag.Tag) error {
	return mockWithUnlink{m.MockHandler}.Unlink(tag)
}

func (m mockWithBoth) Matches(pattern, candidate filetag.Tag) bool {
	return mockWithMatch{m.MockHandler}.Matches(pattern, candidate)
}

func (m *MockHandler) MatchCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchCalls
}
