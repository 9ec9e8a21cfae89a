package generator

import (
	"sync"
	"sync/atomic"
)

// Shared is the state every worker of one search holds a handle to: the
// stop flag, the attempt counter and the "results no longer accepted" signal.
type Shared struct {
	stop     atomic.Bool
	attempts atomic.Uint64

	closed    chan struct{}
	closeOnce sync.Once
}

func NewShared() *Shared {
	return &Shared{closed: make(chan struct{})}
}

// Stop sets the stop flag. Workers see it on their next check.
func (s *Shared) Stop() { s.stop.Store(true) }

func (s *Shared) Stopped() bool { return s.stop.Load() }

// Close tells producers the consumer stopped reading; pending sends fail.
func (s *Shared) Close() {
	s.closeOnce.Do(func() { close(s.closed) })
}

func (s *Shared) Closed() <-chan struct{} { return s.closed }

// Attempts lags the live total by less than FlushInterval per running worker
// and is exact once all workers have returned.
func (s *Shared) Attempts() uint64 { return s.attempts.Load() }

func (s *Shared) addAttempts(n uint64) {
	if n > 0 {
		s.attempts.Add(n)
	}
}

func (s *Shared) shutdown() {
	s.Stop()
	s.Close()
}
