// Command nc is a keyboard-driven, dual-pane terminal file manager.
package main

import (
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/go-nc/nc/internal/app"
	"github.com/go-nc/nc/internal/xlog"
)

var opts app.Options

var rootCmd = &cobra.Command{
	Use:          "nc [left] [right]",
	Short:        "A dual-pane terminal file manager",
	Args:         cobra.MaximumNArgs(2),
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&opts.ConfigDir, "config-dir", "", "directory holding config.yaml and themes (default: XDG config dir)")
	flags.StringVar(&opts.LogFile, "log-file", "", "append diagnostic logging to this file instead of stderr")
	flags.BoolVar(&opts.NoColor, "no-color", false, "disable theme colors and use the terminal's defaults")
}

func run(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		opts.LeftStart = args[0]
	}
	if len(args) > 1 {
		opts.RightStart = args[1]
	}

	if opts.LogFile != "" {
		f, err := os.OpenFile(opts.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
		xlog.SetOutput(f)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("initializing terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing terminal: %w", err)
	}
	defer screen.Fini()

	a, err := app.New(screen, opts)
	if err != nil {
		screen.Fini()
		return fmt.Errorf("starting up: %w", err)
	}

	a.Run()
	a.Shutdown()
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
