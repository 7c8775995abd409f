package commands

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	bnerrors "git.home.luguber.info/inful/buildnative/internal/errors"
	"git.home.luguber.info/inful/buildnative/internal/eventstore"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Limit     int    `short:"n" help:"Number of runs to show" default:"10"`
	HistoryDB string `name:"history-db" help:"SQLite history database (default: history.database from config)"`
}

func (h *HistoryCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root, nil)
	if err != nil {
		return err
	}
	dbPath := h.HistoryDB
	if dbPath == "" {
		dbPath = cfg.History.Database
	}
	if dbPath == "" {
		return bnerrors.ValidationFailed("history.database", "no history database configured (use --history-db)")
	}
	if _, err := os.Stat(dbPath); err != nil {
		return bnerrors.PathMissing("history_db", dbPath, err)
	}

	store, err := eventstore.NewSQLiteStore(dbPath)
	if err != nil {
		return bnerrors.Wrap(err, bnerrors.CategoryFileSystem, bnerrors.SeverityFatal, "failed to open history database")
	}
	defer func() { _ = store.Close() }()

	runs, err := eventstore.RecentRuns(g.context(), store, h.Limit)
	if err != nil {
		return bnerrors.Wrap(err, bnerrors.CategoryRuntime, bnerrors.SeverityError, "failed to read history")
	}
	printRuns(os.Stdout, runs)
	return nil
}

func printRuns(w io.Writer, runs []*eventstore.RunSummary) {
	if len(runs) == 0 {
		_, _ = fmt.Fprintln(w, "No runs recorded")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "STARTED\tRUN\tSTATUS\tEXIT\tDURATION\tREVISION\tTRIGGER")
	for _, r := range runs {
		exit := "-"
		if r.ExitCode != nil {
			exit = fmt.Sprint(*r.ExitCode)
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.StartedAt.Local().Format(time.DateTime),
			shortID(r.RunID),
			r.Status,
			exit,
			r.Duration.Round(time.Millisecond),
			dash(r.Revision),
			dash(r.Trigger))
	}
	_ = tw.Flush()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
