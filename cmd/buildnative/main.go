package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/buildnative/cmd/buildnative/commands"
	"git.home.luguber.info/inful/buildnative/internal/errors"
	"git.home.luguber.info/inful/buildnative/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("buildnative"),
		kong.Description("Build the native engine and copy its shared library into the host project"),
		kong.Vars{"version": version.String()},
		kong.UsageOnError(),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := parser.Run(&commands.Global{Ctx: ctx}, cli)
	cancel()

	errors.NewCLIErrorAdapter(cli.Verbose, nil).HandleError(err)
}
