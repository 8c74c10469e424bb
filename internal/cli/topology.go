package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jaminalder/cube-tic-tac-toe/internal/domain"
)

func newTopologyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "topology",
		Short: "Print the mirror table",
		Long: `Print, for every cell, the cells on neighbouring faces that receive a
copy of a mark placed there. Cells are written face-cell, numbered row-major
from 0 to 8; faces are 0 front, 1 back, 2 right, 3 left, 4 top, 5 bottom.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeTopology(cmd.OutOrStdout())
		},
	}
}

func writeTopology(w io.Writer) error {
	for f := 0; f < domain.NumFaces; f++ {
		for i := 0; i < domain.CellsPerFace; i++ {
			c := domain.Coord{Face: f, Cell: i}
			mirrors := domain.Mirrors(c)
			names := make([]string, len(mirrors))
			for j, m := range mirrors {
				names[j] = m.String()
			}
			line := "-"
			if len(names) > 0 {
				line = strings.Join(names, " ")
			}
			if _, err := fmt.Fprintf(w, "%s: %s\n", c, line); err != nil {
				return err
			}
		}
	}
	return nil
}
