package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/1F47E/onion-gen/internal/cli"
	"github.com/1F47E/onion-gen/pkg/appcfg"
	"github.com/1F47E/onion-gen/pkg/logx"
)

func main() {
	os.Exit(run())
}

func run() int {
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "getwd: %v\n", err)
		return 2
	}

	appConf, err := appcfg.Load(filepath.Join(cwd, "configs", "app.yaml"))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "load app config: %v (using defaults)\n", err)
		}
		appConf = appcfg.Default()
	}

	if err := logx.Init(logx.Config{
		Level:                appConf.LogLevel,
		ConsoleOnly:          true,
		HideSecretsInConsole: appConf.HideSecretsInConsole,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "log init: %v\n", err)
		return 1
	}
	defer logx.Close()

	logx.S().Debugw("oniongen started",
		"cwd", cwd,
		"lang", appConf.Language,
		"log_level", appConf.LogLevel,
		"hide_secrets_in_console", appConf.HideSecretsInConsole,
		"cores", appConf.Cores,
	)

	ctx, stop := cli.WithInterrupt(context.Background())
	defer stop()

	if err := cli.NewRunner(appConf).Execute(ctx, os.Args[1:]); err != nil {
		logx.S().Errorw("oniongen failed", "err", err)
		return 1
	}
	return 0
}
