package commands

import (
	"fmt"
	"io"
	"os"

	"git.home.luguber.info/inful/buildnative/internal/layout"
)

// PathsCmd implements the 'paths' command.
type PathsCmd struct{}

func (p *PathsCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root, nil)
	if err != nil {
		return err
	}
	l, err := deriveLayout(cfg)
	if err != nil {
		return err
	}
	printLayout(os.Stdout, l)
	return nil
}

func printLayout(w io.Writer, l layout.Layout) {
	_, _ = fmt.Fprintf(w, "root:            %s\n", l.Root)
	_, _ = fmt.Fprintf(w, "build_dir:       %s\n", l.BuildDir)
	_, _ = fmt.Fprintf(w, "source_artifact: %s\n", l.SourceArtifact)
	_, _ = fmt.Fprintf(w, "dest_dir:        %s\n", l.DestDir)
	_, _ = fmt.Fprintf(w, "dest_file:       %s\n", l.DestFile())
}
