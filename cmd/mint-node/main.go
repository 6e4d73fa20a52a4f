package main

import (
	"github.com/onflow/mint-node/cmd/mint-node/cmd"
)

func main() {
	cmd.Execute()
}
