package cli

import (
	"github.com/spf13/cobra"

	"github.com/jaminalder/cube-tic-tac-toe/internal/config"
	"github.com/jaminalder/cube-tic-tac-toe/internal/tui"
)

func newPlayCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Play in the terminal",
		Long: `Start an interactive game in the terminal.

Keyboard shortcuts:
  s/m         - Single player (you are X) or two players, at the start
  1-6, tab    - Select a face (1=front 2=back 3=right 4=left 5=top 6=bottom)
  arrows/hjkl - Move within the face
  enter       - Place a mark, or pick a bomb cell
  b           - Arm your bomb, then pick three cells of one line
  esc         - Cancel the bomb selection
  r           - Reset to mode selection
  q           - Quit`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.Run(cmd.Context(), cfg.Engine(), cfg.AIDelay)
		},
	}
}
