package generator

import (
	"bufio"
	"crypto/rand"
	"fmt"
	"io"

	"github.com/1F47E/onion-gen/internal/keystore"
	"github.com/1F47E/onion-gen/internal/onion"
	"github.com/1F47E/onion-gen/internal/patterns"
)

const (
	// StopCheckInterval is how many candidates a worker generates between
	// reads of the stop flag.
	StopCheckInterval = 4096
	// FlushInterval is how many candidates a worker counts locally before
	// adding them to the shared counter.
	FlushInterval = 8192
)

// MatchResult is a matching key pair and its address.
type MatchResult struct {
	KeyPair keystore.KeyPair
	Address string
	Worker  int
}

type Worker struct {
	id      int
	matcher patterns.Matcher
	shared  *Shared
	out     chan<- MatchResult
	rand    io.Reader
}

func NewWorker(id int, m patterns.Matcher, shared *Shared, out chan<- MatchResult, r io.Reader) *Worker {
	return &Worker{id: id, matcher: m, shared: shared, out: out, rand: r}
}

// Run generates candidates until the stop flag is seen or a send fails.
// The only error is a failing random source.
func (w *Worker) Run() error {
	var local uint64
	defer func() {
		w.shared.addAttempts(local % FlushInterval)
	}()

	for {
		if local%StopCheckInterval == 0 && w.shared.Stopped() {
			return nil
		}

		kp, err := keystore.Generate(w.rand)
		if err != nil {
			return fmt.Errorf("worker %d: %w", w.id, err)
		}
		addr := onion.Encode(kp.Public)

		local++
		if local%FlushInterval == 0 {
			w.shared.addAttempts(FlushInterval)
		}

		if !w.matcher.Match(addr) {
			continue
		}

		w.shared.addAttempts(local % FlushInterval)
		local = 0

		if !w.send(MatchResult{KeyPair: kp, Address: addr, Worker: w.id}) {
			return nil
		}
	}
}

func (w *Worker) send(res MatchResult) bool {
	select {
	case <-w.shared.Closed():
		return false
	default:
	}
	select {
	case w.out <- res:
		return true
	case <-w.shared.Closed():
		return false
	}
}

// newRand gives each worker its own buffer over the system CSPRNG so most
// seeds are served without a syscall.
func newRand() io.Reader {
	return bufio.NewReaderSize(rand.Reader, keystore.SeedSize*128)
}
