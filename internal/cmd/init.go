package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gravitrone/polytag/internal/config"
)

// RunInteractiveInit prompts for the connection settings and writes the config.
func RunInteractiveInit(in io.Reader, out io.Writer) error {
	reader := bufio.NewReader(in)
	ask := func(prompt, def string) string {
		if def != "" {
			fmt.Fprintf(out, "%s [%s]: ", prompt, def)
		} else {
			fmt.Fprintf(out, "%s: ", prompt)
		}
		line, _ := reader.ReadString('\n')
		line = strings.TrimSpace(line)
		if line == "" {
			return def
		}
		return line
	}

	apiBase := ask("web api base url", "")
	if apiBase == "" {
		return fmt.Errorf("web api base url is required")
	}

	cfg := &config.Config{
		APIBase:     apiBase,
		Token:       ask("bearer token", ""),
		Scope:       ask("tag scope", ""),
		DefaultLCID: ask("locale", "en-us"),
		OwnerEntity: ask("record entity", "contact"),
		OwnerID:     ask("record id", ""),
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	fmt.Fprintf(out, "config saved to %s\n", config.Path())
	return nil
}

// InitCmd returns the `polytag init` command.
func InitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Configure the Web API connection and tag scope",
		RunE: func(_ *cobra.Command, _ []string) error {
			return RunInteractiveInit(os.Stdin, os.Stdout)
		},
	}
}
