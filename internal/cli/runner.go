package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"golang.org/x/term"

	"github.com/1F47E/onion-gen/internal/generator"
	"github.com/1F47E/onion-gen/internal/keystore"
	"github.com/1F47E/onion-gen/internal/logsink"
	"github.com/1F47E/onion-gen/internal/mnemonic"
	"github.com/1F47E/onion-gen/internal/patterns"
	"github.com/1F47E/onion-gen/pkg/appcfg"
	"github.com/1F47E/onion-gen/pkg/config"
	"github.com/1F47E/onion-gen/pkg/i18n"
	"github.com/1F47E/onion-gen/pkg/logx"
)

type Runner struct {
	in  *bufio.Reader
	out io.Writer

	App *appcfg.Config
	Msg i18n.Messages

	// IsTerminal reports whether stdin is interactive.
	IsTerminal func() bool
}

type searchFlags struct {
	count        int
	workers      int
	output       string
	torKeys      bool
	regex        bool
	yapper       bool
	verbose      bool
	mnemonic     bool
	patternsFile string
}

func NewRunner(app *appcfg.Config) *Runner {
	if app == nil {
		app = appcfg.Default()
	}
	r := &Runner{
		in:  bufio.NewReader(os.Stdin),
		out: os.Stdout,
		App: app,
		Msg: i18n.Get(app.Language),
	}
	r.IsTerminal = func() bool {
		return term.IsTerminal(int(os.Stdin.Fd()))
	}
	return r
}

// SetIO replaces stdin/stdout, used by tests.
func (r *Runner) SetIO(in io.Reader, out io.Writer) {
	r.in = bufio.NewReader(in)
	r.out = out
}

func (r *Runner) prompt(text string) string {
	fmt.Fprint(r.out, text)
	line, _ := r.in.ReadString('\n')
	return strings.TrimSpace(line)
}

// Execute runs the command tree with args (without the program name).
func (r *Runner) Execute(ctx context.Context, args []string) error {
	root := r.Command()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func (r *Runner) Command() *cobra.Command {
	var f searchFlags

	root := &cobra.Command{
		Use:           "oniongen [prefix...]",
		Short:         r.Msg.AppShort,
		Long:          r.Msg.AppLong,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.search(cmd.Context(), f, args)
		},
	}
	root.SetOut(r.out)
	root.SetErr(r.out)

	fl := root.Flags()
	fl.IntVarP(&f.count, "count", "c", 1, "number of matches to find before stopping")
	fl.IntVarP(&f.workers, "workers", "w", r.App.Cores, "number of worker goroutines")
	fl.StringVarP(&f.output, "output", "o", r.App.Output, "output directory")
	fl.BoolVar(&f.torKeys, "tor-keys", r.App.TorKeys, "also save Tor-native hs_ed25519_* key files")
	fl.BoolVar(&f.regex, "regex", false, "treat arguments as regular expressions instead of prefixes")
	fl.BoolVar(&f.yapper, "yapper", false, "shortcut: search for "+strings.Join(config.Yapper, ", "))
	fl.BoolVarP(&f.verbose, "verbose", "v", false, "progress stats every 5s")
	fl.BoolVar(&f.mnemonic, "mnemonic", false, "also save the seed as 24 BIP-39 words")
	fl.StringVar(&f.patternsFile, "patterns", "", "load patterns from a yaml file")
	root.MarkFlagsMutuallyExclusive("yapper", "regex")
	root.MarkFlagsMutuallyExclusive("yapper", "patterns")

	root.AddCommand(r.verifyCommand(), r.restoreCommand())
	return root
}

func (r *Runner) search(ctx context.Context, f searchFlags, args []string) error {
	list, regex, err := r.resolvePatterns(f, args)
	if err != nil {
		return err
	}

	if f.count == 0 {
		fmt.Fprintln(r.out, r.Msg.NothingToDo)
		return nil
	}
	if f.count < 0 {
		return fmt.Errorf("--count must be >= 0, got %d", f.count)
	}
	if f.workers <= 0 {
		f.workers = appcfg.DefaultWorkers()
	}

	m, err := patterns.New(list, regex)
	if err != nil {
		return err
	}

	var manifest *logsink.Manifest
	if r.App.LogsDir != "" {
		dir, err := logsink.MakeSessionDir(r.App.LogsDir, "search", time.Now())
		if err != nil {
			return err
		}
		if err := logx.Init(logx.Config{
			Level:                r.App.LogLevel,
			FilePath:             filepath.Join(dir, "app.log"),
			HideSecretsInConsole: r.App.HideSecretsInConsole,
		}); err != nil {
			return fmt.Errorf("logx init for session failed: %w", err)
		}
		manifest = logsink.NewManifest(dir)
	}

	fmt.Fprintf(r.out, r.Msg.Searching, f.count, f.workers)

	sum, err := generator.Run(ctx, generator.Options{
		Matcher:     m,
		Count:       f.count,
		Workers:     f.workers,
		OutputDir:   f.output,
		TorKeys:     f.torKeys,
		Mnemonic:    f.mnemonic,
		Verbose:     f.verbose,
		ShowSecrets: !r.App.HideSecretsInConsole,
		Manifest:    manifest,
	})
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		fmt.Fprintf(r.out, r.Msg.Interrupted, sum.Found, f.count)
		return nil
	}
	return err
}

func (r *Runner) resolvePatterns(f searchFlags, args []string) ([]string, bool, error) {
	switch {
	case f.yapper:
		return config.Yapper, false, nil
	case f.patternsFile != "":
		cfg, err := config.Load(f.patternsFile)
		if err != nil {
			return nil, false, err
		}
		return cfg.Active(), cfg.Regex, nil
	case len(args) > 0:
		return args, f.regex, nil
	case r.IsTerminal != nil && r.IsTerminal():
		text := r.Msg.PromptPatterns
		if f.regex {
			text = r.Msg.PromptRegex
		}
		if list := strings.Fields(r.prompt(text)); len(list) > 0 {
			return list, f.regex, nil
		}
	}
	return nil, false, errors.New(r.Msg.NoPatterns)
}

func (r *Runner) verifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <dir>...",
		Short: r.Msg.VerifyShort,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var errs error
			for _, dir := range args {
				l, err := keystore.Verify(dir)
				if err != nil {
					errs = multierr.Append(errs, fmt.Errorf("%s: %w", dir, err))
					fmt.Fprintf(r.out, "%s %s\n", r.Msg.VerifyFailed, dir)
					logx.S().Errorw("verify failed", "dir", dir, "err", err)
					continue
				}
				fmt.Fprintf(r.out, "%s %s.onion\n", r.Msg.VerifyOK, l.Hostname)
				logx.S().Infow("verified", "dir", dir, "address", l.Hostname, "tor_keys", l.Expanded != nil)
			}
			return errs
		},
	}
}

func (r *Runner) restoreCommand() *cobra.Command {
	var (
		output  string
		torKeys bool
	)
	cmd := &cobra.Command{
		Use:   "restore <word>...",
		Short: r.Msg.RestoreShort,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, err := mnemonic.ToSeed(strings.Join(args, " "))
			if err != nil {
				return err
			}
			kp := keystore.FromSeed(seed)
			addr := kp.Address()
			dir, err := keystore.Save(output, kp, addr, keystore.SaveOptions{TorKeys: torKeys, Mnemonic: true})
			if err != nil {
				return fmt.Errorf("restore %s: %w", addr, err)
			}
			logx.S().Infow("restored", "address", addr+".onion", "dir", dir)
			fmt.Fprintf(r.out, r.Msg.Restored, dir)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", r.App.Output, "output directory")
	cmd.Flags().BoolVar(&torKeys, "tor-keys", r.App.TorKeys, "also save Tor-native hs_ed25519_* key files")
	return cmd
}

// WithInterrupt cancels the returned context on SIGINT/SIGTERM.
func WithInterrupt(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}
