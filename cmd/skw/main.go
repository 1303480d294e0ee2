// Command skw is the command-line front-end over the book/resolver/
// scripter/executer pipeline: a thin dispatcher, not a place new business
// logic lives (SPEC_FULL.md §1).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var profilesDir string

	root := &cobra.Command{
		Use:           "skw",
		Short:         "Source-based distribution builder",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&profilesDir, "profiles-dir", "profiles", "profiles directory")

	root.AddCommand(
		newListBooksCmd(&profilesDir),
		newAddBookCmd(&profilesDir),
		newInstallBookCmd(&profilesDir),
		newListProfilesCmd(&profilesDir),
		newAddProfileCmd(&profilesDir),
		newListSectionsCmd(&profilesDir),
		newParseCmd(&profilesDir),
		newScriptCmd(&profilesDir),
		newExecuteCmd(&profilesDir),
	)
	return root
}
