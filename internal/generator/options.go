package generator

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/1F47E/onion-gen/internal/keystore"
	"github.com/1F47E/onion-gen/internal/logsink"
	"github.com/1F47E/onion-gen/internal/patterns"
)

var ErrInvalidOptions = errors.New("invalid generator options")

const DefaultProgressInterval = 5 * time.Second

// SaveFunc persists one match and returns the directory it wrote.
type SaveFunc func(outputDir string, kp keystore.KeyPair, addr string, opt keystore.SaveOptions) (string, error)

type Options struct {
	Matcher patterns.Matcher
	Count   int // matches to find before stopping
	Workers int

	OutputDir string
	TorKeys   bool // hs_ed25519_* files
	Mnemonic  bool // seed_mnemonic.txt

	Verbose          bool          // progress at info level (debug otherwise)
	ProgressInterval time.Duration // 0 -> DefaultProgressInterval
	ShowSecrets      bool          // log the raw key on FOUND

	Manifest *logsink.Manifest // optional found.jsonl sink

	// NewRand returns the random source of one worker; nil -> buffered crypto/rand.
	NewRand func() io.Reader
	// Save defaults to keystore.Save.
	Save SaveFunc
}

func (o *Options) validate() error {
	if o.Matcher == nil {
		return fmt.Errorf("%w: matcher is nil", ErrInvalidOptions)
	}
	if o.Count <= 0 {
		return fmt.Errorf("%w: count must be > 0, got %d", ErrInvalidOptions, o.Count)
	}
	if o.Workers <= 0 {
		return fmt.Errorf("%w: workers must be > 0, got %d", ErrInvalidOptions, o.Workers)
	}
	if o.OutputDir == "" {
		return fmt.Errorf("%w: output dir is empty", ErrInvalidOptions)
	}
	if o.ProgressInterval <= 0 {
		o.ProgressInterval = DefaultProgressInterval
	}
	if o.NewRand == nil {
		o.NewRand = newRand
	}
	if o.Save == nil {
		o.Save = keystore.Save
	}
	return nil
}
