package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/gravitrone/polytag/internal/errs"
	"github.com/gravitrone/polytag/internal/tag"
)

// BindFlags registers the flags shared by the tag subcommands.
func BindFlags(cmd *cobra.Command, opts *Options) {
	cmd.PersistentFlags().StringVar(&opts.Record, "record", "", "owner record id (overrides owner_id)")
	cmd.PersistentFlags().BoolVar(&opts.Debug, "debug", false, "log debug output to stderr")
}

// ListCmd returns the `polytag list` command.
func ListCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tags attached to the record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := OpenSession(opts)
			if err != nil {
				return err
			}
			defer s.Close()

			tags, err := s.Service.LoadAttached(cmd.Context())
			if err != nil {
				return fmt.Errorf("list tags: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(tags) == 0 {
				fmt.Fprintln(out, "no tags attached")
				return nil
			}
			for _, t := range tags {
				printTag(out, t)
			}
			return nil
		},
	}
}

// SearchCmd returns the `polytag search <text>` command.
func SearchCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "search <text>",
		Short: "Search tags in the configured scope",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := OpenSession(opts)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx := cmd.Context()
			if _, err := s.Service.LoadAttached(ctx); err != nil {
				return fmt.Errorf("search tags: %w", err)
			}
			candidates, err := s.Service.Search(ctx, args[0])
			if err != nil {
				return fmt.Errorf("search tags: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(candidates) == 0 {
				fmt.Fprintln(out, "no matching tags")
				return nil
			}
			for _, t := range candidates {
				printTag(out, t)
			}
			return nil
		},
	}
}

// AttachCmd returns the `polytag attach <name>` command.
func AttachCmd(opts *Options) *cobra.Command {
	var id string
	cmd := &cobra.Command{
		Use:   "attach [name] [--id id]",
		Short: "Attach a tag to the record, creating it if needed",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			if name == "" && id == "" {
				return fmt.Errorf("tag name or --id is required")
			}

			s, err := OpenSession(opts)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx := cmd.Context()
			if _, err := s.Service.LoadAttached(ctx); err != nil {
				return fmt.Errorf("attach tag: %w", err)
			}
			t, err := s.Service.AttachByNameOrID(ctx, name, id)
			if err != nil {
				return fmt.Errorf("attach tag: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "tag attached: %s (%s)\n", t.Name, t.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "attach an existing tag by id")
	return cmd
}

// DetachCmd returns the `polytag detach <id>` command.
func DetachCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "detach <id>",
		Short: "Remove a tag from the record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := OpenSession(opts)
			if err != nil {
				return err
			}
			defer s.Close()

			ok, err := s.Service.Detach(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("detach tag: %w", err)
			}
			if !ok {
				return fmt.Errorf("detach tag: %s is not attached", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), "tag detached")
			return nil
		},
	}
}

// TagCommands returns the tag subcommands sharing opts.
func TagCommands(opts *Options) []*cobra.Command {
	return []*cobra.Command{
		ListCmd(opts),
		SearchCmd(opts),
		AttachCmd(opts),
		DetachCmd(opts),
	}
}

func printTag(w io.Writer, t tag.Tag) {
	locale := t.LCID
	if name := tag.LocaleName(t.LCID); name != "" && name != t.LCID {
		locale = fmt.Sprintf("%s, %s", t.LCID, name)
	}
	fmt.Fprintf(w, "  %s  %s  (%s)\n", t.ID, t.Name, locale)
}

// ExitCode maps an error onto a process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errs.ErrSuspended):
		return 3
	case errors.Is(err, context.Canceled):
		return 130
	case errs.CodeOf(err) != "":
		return 2
	default:
		return 1
	}
}
