package generator

import (
	"bytes"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1F47E/onion-gen/internal/patterns"
)

// countingMatcher matches on every n-th call and counts every call, which is
// one per generated candidate.
type countingMatcher struct {
	every   uint64
	calls   atomic.Uint64
	onMatch func(call uint64)
}

func (m *countingMatcher) Match(string) bool {
	n := m.calls.Add(1)
	if m.every == 0 || n%m.every != 0 {
		return false
	}
	if m.onMatch != nil {
		m.onMatch(n)
	}
	return true
}

func (m *countingMatcher) Kind() patterns.Kind { return "counting" }
func (m *countingMatcher) Patterns() []string { return nil }

// counterReader is an endless deterministic byte stream.
type counterReader struct{ n byte }

func (r *counterReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = r.n
		r.n++
	}
	return len(p), nil
}

func TestWorkerAccountingExact(t *testing.T) {
	for _, k := range []uint64{1, 2, 4095, 4096, 4097, 8191, 8192, 8193, 16384, 20000} {
		k := k
		t.Run(fmt.Sprintf("k=%d", k), func(t *testing.T) {
			m := &countingMatcher{every: k}
			shared := NewShared()
			// the consumer is gone: the first match ends the worker
			shared.Close()

			w := NewWorker(0, m, shared, make(chan MatchResult), &counterReader{})
			require.NoError(t, w.Run())

			assert.Equal(t, k, m.calls.Load())
			assert.Equal(t, k, shared.Attempts())
		})
	}
}

func TestWorkerAccountingAcrossMatches(t *testing.T) {
	shared := NewShared()
	m := &countingMatcher{every: 5000}
	m.onMatch = func(call uint64) {
		if call == 15000 {
			shared.Stop()
		}
	}
	out := make(chan MatchResult, 8)

	w := NewWorker(3, m, shared, out, &counterReader{})
	require.NoError(t, w.Run())
	close(out)

	var got []MatchResult
	for res := range out {
		got = append(got, res)
	}
	require.Len(t, got, 3)
	for _, res := range got {
		assert.Equal(t, 3, res.Worker)
		assert.Equal(t, res.KeyPair.Address(), res.Address)
	}
	// the counter was reset on the last match, so the stop flag is read at once
	assert.Equal(t, uint64(15000), m.calls.Load())
	assert.Equal(t, uint64(15000), shared.Attempts())
}

func TestWorkerStopCadence(t *testing.T) {
	shared := NewShared()
	m := &countingMatcher{}
	var stopped atomic.Bool
	probe := &probeMatcher{inner: m, hook: func(n uint64) {
		if n == 100 && !stopped.Swap(true) {
			shared.Stop()
		}
	}}

	w := NewWorker(0, probe, shared, make(chan MatchResult), &counterReader{})
	require.NoError(t, w.Run())

	assert.Equal(t, uint64(StopCheckInterval), m.calls.Load())
	assert.Equal(t, uint64(StopCheckInterval), shared.Attempts())
}

func TestWorkerStopsBeforeFirstCandidate(t *testing.T) {
	shared := NewShared()
	shared.Stop()
	m := &countingMatcher{}

	w := NewWorker(0, m, shared, make(chan MatchResult), &counterReader{})
	require.NoError(t, w.Run())
	assert.Zero(t, m.calls.Load())
	assert.Zero(t, shared.Attempts())
}

func TestWorkerRandomFailure(t *testing.T) {
	shared := NewShared()
	m := &countingMatcher{}

	w := NewWorker(7, m, shared, make(chan MatchResult), bytes.NewReader(make([]byte, 32*10)))
	err := w.Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "worker 7")
	assert.Equal(t, uint64(10), shared.Attempts())
}

type probeMatcher struct {
	inner *countingMatcher
	hook  func(n uint64)
}

func (p *probeMatcher) Match(addr string) bool {
	ok := p.inner.Match(addr)
	p.hook(p.inner.calls.Load())
	return ok
}

func (p *probeMatcher) Kind() patterns.Kind { return p.inner.Kind() }
func (p *probeMatcher) Patterns() []string { return nil }

func BenchmarkWorkerCandidate(b *testing.B) {
	shared := NewShared()
	m := &countingMatcher{every: uint64(b.N)}
	shared.Close()
	w := NewWorker(0, m, shared, make(chan MatchResult), newRand())

	b.ResetTimer()
	if err := w.Run(); err != nil {
		b.Fatal(err)
	}
}
