package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dzjyyds666/qent/parse"
	"github.com/dzjyyds666/qent/parse/qent"
	"github.com/dzjyyds666/qent/pkg/watch"
)

var watchInput string // 监听的文件路径

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-parse a file every time it changes",
	Long: `Watch a q-entities file and re-parse it after every save, logging the entity
count or the first error with its location.`,
	Args: cobra.NoArgs,
	RunE: watchRun,
}

func init() {
	watchCmd.Flags().StringVarP(&watchInput, "input", "i", "", "file to watch")
	watchCmd.Flags().Duration("debounce", 200*time.Millisecond, "quiet period before re-parsing")
	bindFlag("watch.debounce", watchCmd.Flags().Lookup("debounce"))
}

func watchRun(cmd *cobra.Command, args []string) error {
	if len(watchInput) == 0 {
		return fmt.Errorf("no input file path")
	}
	opts, err := appCfg.ParseOptions()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reparse := func(_ context.Context, ev watch.Event) error {
		if ev.Type == watch.EventDeleted || ev.Type == watch.EventRenamed {
			logger.Warn("file gone", "path", ev.Path, "event", ev.Type.String())
			return nil
		}
		return reportParse(ev.Path, opts)
	}

	w := watch.New(watchInput, appCfg.Watch.Debounce, reparse)
	w.SetLogger(logger)
	if err := reportParse(w.Path(), opts); err != nil {
		logger.Warn("initial parse", "error", err)
	}
	return w.Run(ctx)
}

// reportParse logs the outcome of parsing path. Only I/O failures are returned;
// parse errors are logged with their location.
func reportParse(path string, opts qent.Options) error {
	ents, err := parse.File(path, opts)
	var pe *qent.ParseError
	switch {
	case errors.As(err, &pe):
		logger.Error("parse failed", "path", path, "kind", pe.Kind.String(),
			"line", pe.Location.Line, "column", pe.Location.Column, "offset", pe.Location.Offset)
		return nil
	case err != nil:
		return err
	}
	logger.Info("parsed", "path", path, "entities", ents.Len(), "key_values", ents.KeyValueCount())
	return nil
}
