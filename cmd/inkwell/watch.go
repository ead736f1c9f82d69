package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/dshills/inkwell/internal/project/watcher"
)

func newWatchCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "watch FILE...",
		Short: "Keep files open and reload them as they change on disk",
		Long: `Watch opens each FILE and reloads it whenever another program changes
it, logging each reload. It runs until interrupted.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !c.cfg.Watch.Enabled {
				return errors.New("watching is disabled by watch.enabled")
			}
			fsw, err := watcher.NewFSNotifyWatcher()
			if err != nil {
				return err
			}
			session, err := c.session(watcher.NewDebouncer(fsw, c.cfg.Watch.Debounce.Std()))
			if err != nil {
				_ = fsw.Close()
				return err
			}
			defer session.Close()
			if err := openAll(cmd, session, args); err != nil {
				return err
			}

			c.logger.WithComponent("cli").Info("watching %d file(s)", len(args))
			err = session.Run(cmd.Context())
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}
