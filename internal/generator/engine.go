package generator

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/1F47E/onion-gen/internal/keystore"
	"github.com/1F47E/onion-gen/internal/logsink"
	"github.com/1F47E/onion-gen/pkg/logx"
)

// Summary is reported after every worker has been joined.
type Summary struct {
	Session  string
	Found    int
	Failed   int // matches whose export failed
	Attempts uint64
	Elapsed  time.Duration
	Dirs     []string
}

func (s Summary) Rate() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.Attempts) / s.Elapsed.Seconds()
}

// Run searches until opt.Count matches were consumed, ctx is cancelled or a
// worker fails. The summary is always returned, also together with an error.
func Run(ctx context.Context, opt Options) (*Summary, error) {
	if err := opt.validate(); err != nil {
		return nil, err
	}

	session := uuid.NewString()
	log := logx.WithFields("session", session)

	shared := NewShared()
	results := make(chan MatchResult, opt.Workers*4)
	start := time.Now()

	log.Infow("search started",
		"mode", opt.Matcher.Kind(),
		"patterns", opt.Matcher.Patterns(),
		"count", opt.Count,
		"workers", opt.Workers,
		"output", opt.OutputDir,
		"tor_keys", opt.TorKeys,
	)

	var g errgroup.Group
	for i := 0; i < opt.Workers; i++ {
		w := NewWorker(i, opt.Matcher, shared, results, opt.NewRand())
		g.Go(func() error {
			if err := w.Run(); err != nil {
				log.Errorw("worker failed", "worker", w.id, "err", err)
				shared.shutdown()
				return err
			}
			return nil
		})
	}

	workersDone := make(chan error, 1)
	go func() {
		err := g.Wait()
		close(results)
		workersDone <- err
	}()

	go func() {
		select {
		case <-ctx.Done():
			log.Warnw("interrupted, stopping workers")
			shared.shutdown()
		case <-shared.Closed():
		}
	}()

	reporterDone := make(chan struct{})
	go func() {
		defer close(reporterDone)
		reportProgress(shared, start, opt.ProgressInterval, opt.Verbose, log)
	}()

	sum := &Summary{Session: session}
	for res := range results {
		sum.Found++
		collect(sum, res, opt, shared, start, log)

		if sum.Found >= opt.Count {
			log.Infow("target reached, stopping workers", "found", sum.Found)
			break
		}
	}
	shared.shutdown()

	werr := <-workersDone
	<-reporterDone

	sum.Attempts = shared.Attempts()
	sum.Elapsed = time.Since(start)

	log.Infow("done",
		"found", sum.Found,
		"failed", sum.Failed,
		"elapsed", humanDuration(sum.Elapsed),
		"attempts", humanize.Comma(int64(sum.Attempts)),
		"rate_per_sec", humanize.Comma(int64(sum.Rate())),
	)

	if werr != nil {
		return sum, werr
	}
	if sum.Found < opt.Count && ctx.Err() != nil {
		return sum, ctx.Err()
	}
	return sum, nil
}

func collect(sum *Summary, res MatchResult, opt Options, shared *Shared, start time.Time, log *zap.SugaredLogger) {
	elapsed := time.Since(start)
	attempts := shared.Attempts()

	fields := []any{
		"index", fmt.Sprintf("%d/%d", sum.Found, opt.Count),
		"address", res.Address + ".onion",
		"worker", res.Worker,
		"attempts", humanize.Comma(int64(attempts)),
		"elapsed", humanDuration(elapsed),
	}
	if opt.ShowSecrets {
		fields = append(fields, "private_key", hex.EncodeToString(res.KeyPair.PrivateKey()))
	}
	log.Infow("FOUND", fields...)

	rec := logsink.Found{
		Session:  sum.Session,
		Index:    sum.Found,
		Address:  res.Address,
		Attempts: attempts,
		Elapsed:  elapsed.String(),
		At:       time.Now(),
	}

	dir, err := opt.Save(opt.OutputDir, res.KeyPair, res.Address, keystore.SaveOptions{
		TorKeys:  opt.TorKeys,
		Mnemonic: opt.Mnemonic,
	})
	if err != nil {
		sum.Failed++
		rec.Error = err.Error()
		log.Errorw("export failed", "address", res.Address, "err", err)
	} else {
		sum.Dirs = append(sum.Dirs, dir)
		rec.Dir = dir
		log.Debugw("exported", "address", res.Address, "dir", dir)
	}

	if opt.Manifest != nil {
		if err := opt.Manifest.Append(rec); err != nil {
			log.Errorw("manifest append failed", "address", res.Address, "err", err)
		}
	}
}

func reportProgress(shared *Shared, start time.Time, every time.Duration, verbose bool, log *zap.SugaredLogger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	emit := log.Debugw
	if verbose {
		emit = log.Infow
	}

	for {
		select {
		case <-shared.Closed():
			return
		case now := <-ticker.C:
			if shared.Stopped() {
				return
			}
			elapsed := now.Sub(start)
			n := shared.Attempts()
			rate := 0.0
			if elapsed > 0 {
				rate = float64(n) / elapsed.Seconds()
			}
			emit("progress",
				"attempts", humanize.Comma(int64(n)),
				"rate_per_sec", humanize.Comma(int64(rate)),
				"elapsed", humanDuration(elapsed),
			)
		}
	}
}

func humanDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm%02ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
}
