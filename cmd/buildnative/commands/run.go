package commands

import (
	"fmt"

	"git.home.luguber.info/inful/buildnative/internal/config"
	"git.home.luguber.info/inful/buildnative/internal/launcher"
)

// RunCmd implements the default 'run' command.
type RunCmd struct {
	Jobs                int    `short:"j" help:"Parallel build jobs passed to the build tool (default 12)"`
	RequireBuildSuccess bool   `name:"require-build-success" help:"Skip the copy when the build tool exits non-zero"`
	MetricsFile         string `name:"metrics-file" help:"Write Prometheus metrics to this textfile after the run"`
	HistoryDB           string `name:"history-db" help:"Record the run in this SQLite history database"`
}

func (r *RunCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root, r.apply)
	if err != nil {
		return err
	}
	sess, err := openSession(cfg)
	if err != nil {
		return err
	}
	defer sess.Close()

	rep, err := sess.launcher("cli").Run(g.context())
	sess.flushMetrics()
	printReport(rep)
	return err
}

func (r *RunCmd) apply(cfg *config.Config) {
	if r.Jobs != 0 {
		cfg.Build.Jobs = r.Jobs
	}
	if r.RequireBuildSuccess {
		cfg.Build.RequireSuccess = true
	}
	if r.MetricsFile != "" {
		cfg.Metrics.Textfile = r.MetricsFile
	}
	if r.HistoryDB != "" {
		cfg.History.Database = r.HistoryDB
	}
}

// printReport writes the user-facing summary of a run to stdout.
func printReport(rep *launcher.Report) {
	if rep == nil {
		return
	}
	switch rep.Outcome {
	case launcher.OutcomeSuccess:
		fmt.Printf("Copied %s (%d bytes)\n", rep.Destination, rep.Bytes)
	case launcher.OutcomeBuildFailedCopied:
		fmt.Printf("Build exited with status %d; copied %s (%d bytes)\n", rep.BuildExitCode, rep.Destination, rep.Bytes)
	default:
		fmt.Println("Launch failed")
	}
}
