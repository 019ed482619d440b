// capsule captures tool-use context and orchestrates multi-teammate crews across git worktrees.
package main

import (
	"os"

	"github.com/capsulekit/capsule/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
