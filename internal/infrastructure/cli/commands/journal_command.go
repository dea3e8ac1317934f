package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/doeshing/linux-agent/internal/domain"
	"github.com/doeshing/linux-agent/internal/ports"
)

// NewJournalCommand creates the journal command with all subcommands
func NewJournalCommand(provide ContainerProvider) *cobra.Command {
	journalCmd := &cobra.Command{
		Use:   "journal",
		Short: "Inspect commands executed in previous sessions",
	}

	journalCmd.AddCommand(
		newJournalListCommand(provide),
		newJournalSearchCommand(provide),
		newJournalClearCommand(provide),
		newJournalExportCommand(provide),
	)

	return journalCmd
}

func newJournalListCommand(provide ContainerProvider) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent journal records",
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 1 {
				return errors.New(ErrInvalidLimit)
			}
			journal, err := openJournal(cmd.Context(), provide)
			if err != nil {
				return err
			}
			records, err := journal.Records(limit, "")
			if err != nil {
				return fmt.Errorf("failed to retrieve journal records: %w", err)
			}
			printRecords(cmd.OutOrStdout(), records, time.Now())
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", domain.DefaultJournalLimit, "Max records to show")
	return cmd
}

func newJournalSearchCommand(provide ContainerProvider) *cobra.Command {
	var (
		query string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search journal commands and outputs for a keyword",
		RunE: func(cmd *cobra.Command, args []string) error {
			if query == "" {
				return errors.New(ErrQueryRequired)
			}
			if limit < 1 {
				return errors.New(ErrInvalidLimit)
			}
			journal, err := openJournal(cmd.Context(), provide)
			if err != nil {
				return err
			}
			records, err := journal.Records(limit, query)
			if err != nil {
				return fmt.Errorf("failed to search journal: %w", err)
			}
			printRecords(cmd.OutOrStdout(), records, time.Now())
			return nil
		},
	}

	cmd.Flags().StringVar(&query, "query", "", "Search keyword")
	cmd.Flags().IntVar(&limit, "limit", domain.DefaultJournalSearchLimit, "Limit search results")
	return cmd
}

func newJournalClearCommand(provide ContainerProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every journal record",
		RunE: func(cmd *cobra.Command, args []string) error {
			journal, err := openJournal(cmd.Context(), provide)
			if err != nil {
				return err
			}
			if err := journal.Clear(); err != nil {
				return fmt.Errorf("failed to clear journal: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), MsgJournalCleared)
			return nil
		},
	}
}

func newJournalExportCommand(provide ContainerProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "export <path>",
		Short: "Export the journal to a JSONL file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			journal, err := openJournal(cmd.Context(), provide)
			if err != nil {
				return err
			}
			exporter, ok := journal.(interface{ ExportJSON(string) error })
			if !ok {
				return errors.New(ErrExportUnsupported)
			}
			if err := exporter.ExportJSON(args[0]); err != nil {
				return fmt.Errorf("failed to export journal to %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Journal exported to %s\n", args[0])
			return nil
		},
	}
}

func openJournal(ctx context.Context, provide ContainerProvider) (ports.Journal, error) {
	container, err := provide(ctx)
	if err != nil {
		return nil, err
	}
	if container.Journal == nil {
		return nil, errors.New(ErrJournalUnavailable)
	}
	return container.Journal, nil
}

// printRecords writes one line per record: age, status, duration, command and an output preview.
func printRecords(out io.Writer, records []domain.JournalRecord, now time.Time) {
	if len(records) == 0 {
		fmt.Fprintln(out, MsgNoJournalRecords)
		return
	}
	for _, rec := range records {
		status := "ok"
		if !rec.Success {
			status = fmt.Sprintf("exit %d", rec.ExitCode)
		}
		fmt.Fprintf(out, "%s | %s | %s | %s | %s\n",
			humanize.RelTime(rec.Timestamp, now, "ago", "from now"),
			status,
			(time.Duration(rec.DurationMS) * time.Millisecond).String(),
			rec.Command,
			preview(rec.Output))
	}
}

func preview(output string) string {
	line := strings.Join(strings.Fields(output), " ")
	runes := []rune(line)
	if len(runes) > outputPreviewLimit {
		return string(runes[:outputPreviewLimit]) + "..."
	}
	return line
}
