package main

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/inkwell/internal/script"
)

func newRunCmd(c *cli) *cobra.Command {
	var (
		eval    string
		timeout = script.DefaultTimeout
	)
	cmd := &cobra.Command{
		Use:   "run [SCRIPT] [FILE...]",
		Short: "Open files and run a Lua script against them",
		Long: `Run opens each FILE in its own view, focusing the last one, then runs
the Lua script. The script drives the session through the global editor table
and must save what it wants kept; unsaved changes are discarded.`,
		Example: `  inkwell run rename.lua main.go
  inkwell run -e 'editor.action("delete_line") editor.save()' notes.txt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			chunk, src := "eval", eval
			if eval == "" {
				if len(args) == 0 {
					return errors.New("run needs a script file or -e")
				}
				data, err := c.files.ReadFile(args[0])
				if err != nil {
					return err
				}
				chunk, src, args = filepath.Base(args[0]), string(data), args[1:]
			}

			session, err := c.session(nil)
			if err != nil {
				return err
			}
			defer session.Close()
			if err := openAll(cmd, session, args); err != nil {
				return err
			}

			runner := script.NewRunner(session,
				script.WithOutput(cmd.OutOrStdout()),
				script.WithLogger(c.logger),
				script.WithTimeout(timeout),
			)
			defer runner.Close()
			if err := runner.Run(cmd.Context(), chunk, src); err != nil {
				return err
			}

			if names := session.Modified(); len(names) > 0 {
				c.logger.WithComponent("cli").Warn("discarding unsaved changes to %s", strings.Join(names, ", "))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&eval, "eval", "e", "", "run this Lua source instead of a script file")
	cmd.Flags().DurationVar(&timeout, "timeout", timeout, "stop the script after this long (0 disables)")
	return cmd
}
