package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gravitrone/polytag/internal/cmd"
	"github.com/gravitrone/polytag/internal/config"
	"github.com/gravitrone/polytag/internal/logger"
	"github.com/gravitrone/polytag/internal/tagger"
	"github.com/gravitrone/polytag/internal/ui"
)

func newRoot() *cobra.Command {
	opts := &cmd.Options{}
	root := &cobra.Command{
		Use:   "polytag",
		Short: "polytag - multilingual tags for business records",
		Long:  "polytag: search, attach and detach scoped tags on a record, in the viewer's language.",
		RunE: func(c *cobra.Command, _ []string) error {
			return runTUI(c.Context(), opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.BindFlags(root, opts)

	root.AddCommand(cmd.InitCmd())
	root.AddCommand(cmd.TagCommands(opts)...)
	return root
}

func main() {
	if err := newRoot().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(cmd.ExitCode(err))
	}
}

func init() {
	// Force truecolor so hex colors render correctly
	// Must be set before any lipgloss style initialization
	os.Setenv("COLORTERM", "truecolor")
}

func runTUI(ctx context.Context, opts *cmd.Options) error {
	cfg, err := config.Load()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Println("not configured. run 'polytag init' first.")
		}
		return err
	}
	if !isInteractiveTerminal(os.Stdin) || !isInteractiveTerminal(os.Stdout) {
		return fmt.Errorf("the picker needs a terminal; use 'polytag list' or 'polytag search'")
	}

	level := cfg.LogLevel
	if opts.Debug {
		level = "debug"
	}
	log, err := logger.New(level, cfg.LogFile)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync(log) }()

	settings := cfg.Settings(opts.Record)
	if settings.OwnerID == "" {
		return fmt.Errorf("no record selected: pass --record or set owner_id")
	}
	log.Info("picker started", zap.String("owner_id", settings.OwnerID), zap.String("lcid", settings.ViewerLCID))

	svc := tagger.New(cfg.Client(), settings, log)
	p := tea.NewProgram(ui.NewPicker(ctx, svc), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

func isInteractiveTerminal(file *os.File) bool {
	if file == nil {
		return false
	}
	info, err := file.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
