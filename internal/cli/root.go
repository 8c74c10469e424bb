// Package cli implements the command-line interface for cubetactoe.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jaminalder/cube-tic-tac-toe/internal/config"
)

const version = "0.1.0"

// NewRootCmd builds the command tree around a fresh configuration.
func NewRootCmd() *cobra.Command {
	cfg := config.Default()
	root := &cobra.Command{
		Use:   "cubetactoe",
		Short: "Tic-tac-toe on the six faces of a cube",
		Long: `Tic-tac-toe played on a cube whose six faces each carry a 3x3 grid.
Marks on edge and corner cells are mirrored onto the neighbouring faces,
three completed lines anywhere on the cube win, and each player holds a
single bomb that clears one line.

Play in the terminal, or serve the game over HTTP.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return cfg.Validate()
		},
	}
	cfg.Bind(root.PersistentFlags())

	root.AddCommand(
		newServeCmd(cfg),
		newPlayCmd(cfg),
		newTopologyCmd(),
	)
	return root
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
