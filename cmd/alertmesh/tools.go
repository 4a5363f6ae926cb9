package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"
)

func newToolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List the registered investigation tools",
		RunE: func(cmd *cobra.Command, _ []string) error {
			mesh, err := loadMesh(cmd, io.Discard)
			if err != nil {
				return err
			}
			defer mesh.Close()

			listing := mesh.Tools()

			names := make([]string, 0, len(listing))
			for name := range listing {
				names = append(names, name)
			}

			sort.Strings(names)

			for _, name := range names {
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", name, listing[name]); err != nil {
					return err
				}
			}

			return nil
		},
	}
}
