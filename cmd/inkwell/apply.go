package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// typePrefix marks an apply step that inserts text.
const typePrefix = "type:"

func newApplyCmd(c *cli) *cobra.Command {
	var (
		save       bool
		selections bool
	)
	cmd := &cobra.Command{
		Use:   "apply FILE STEP...",
		Short: "Apply a list of actions to a file",
		Long: `Apply opens FILE and runs each STEP in order. A step is an action name
such as move_down, select_next or delete_line, or type:TEXT to insert TEXT at
every selection. The result is printed unless --save is given.`,
		Example: `  inkwell apply notes.txt select_next select_next type:NAME --save
  inkwell apply main.go line_mode extend_down --selections`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := c.session(nil)
			if err != nil {
				return err
			}
			defer session.Close()

			v, err := session.Open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, step := range args[1:] {
				if text, ok := strings.CutPrefix(step, typePrefix); ok {
					err = session.Type(text)
				} else {
					err = session.HandleName(cmd.Context(), step)
				}
				if err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			switch {
			case save:
				return session.Save(cmd.Context())
			case selections:
				for _, sel := range v.Selections() {
					fmt.Fprintf(out, "%d\t%d\t%d\n", sel.Secondary, sel.Primary, sel.Offset)
				}
			default:
				fmt.Fprint(out, v.Text())
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&save, "save", "s", false, "write the result back to FILE")
	cmd.Flags().BoolVar(&selections, "selections", false, "print the selections (secondary, primary, offset) instead of the text")
	return cmd
}
