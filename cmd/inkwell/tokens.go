package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTokensCmd(c *cli) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "tokens FILE",
		Short: "Print the words the editor sees in a file",
		Long: `Tokens prints one line per word: index, length, type and text. Indices
count runes from the start of the file. Whitespace and other ignored tokens
are left out unless --all is given.`,
		Args: cobra.ExactArgs(1),
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
			text := []rune(v.Text())
			out := cmd.OutOrStdout()
			for _, w := range v.Handle().Buffer().Words() {
				if w.IsIgnored() && !all {
					continue
				}
				fmt.Fprintf(out, "%d\t%d\t%s\t%q\n", w.Index, w.Length, w.Type, string(text[w.Index:w.Index+w.Length]))
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "include ignored tokens")
	return cmd
}
