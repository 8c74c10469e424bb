// Cube Tic-Tac-Toe - terminal and web front-ends for tic-tac-toe on a cube.
package main

import (
	"github.com/jaminalder/cube-tic-tac-toe/internal/cli"
)

func main() {
	cli.Execute()
}
