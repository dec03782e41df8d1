package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/arthur-debert/dotinstall/internal/cli"
	"github.com/arthur-debert/dotinstall/pkg/errors"
	"github.com/arthur-debert/dotinstall/pkg/logging"
	"github.com/arthur-debert/dotinstall/pkg/ui"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := cli.NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger := logging.GetLogger("main")
		logger.Error().
			Err(err).
			Str("code", string(errors.GetErrorCode(err))).
			Msg("dotinstall failed")

		if ui.DetectFormat(os.Stderr) == ui.FormatText {
			ui.DisableStyling()
		}
		fmt.Fprintln(os.Stderr, ui.FormatError(err))
		fmt.Fprintln(os.Stderr, ui.FormatUsage())
		stop()
		os.Exit(1)
	}
}
