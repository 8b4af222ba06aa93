// Command gv browses image galleries in the terminal, over SSH, and serves
// them to the browser carousel.
package main

import (
	"context"
	"log"
	"os"

	"github.com/charmbracelet/fang"
	"pkt.systems/psi"
	"pkt.systems/pslog"

	"github.com/Dicklesworthstone/gallery_viewer/pkg/version"
)

func main() {
	psi.Run(submain)
}

func submain(ctx context.Context) int {
	logger := pslog.LoggerFromEnv(
		pslog.WithEnvWriter(os.Stderr),
		pslog.WithEnvOptions(pslog.Options{Mode: pslog.ModeConsole}),
	)
	ctx = pslog.ContextWithLogger(ctx, logger)
	log.SetOutput(pslog.LogLogger(logger).Writer())
	log.SetFlags(0)

	if err := fang.Execute(ctx, newRootCmd(),
		fang.WithVersion(version.Current()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		return 1
	}
	return 0
}
