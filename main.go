package main

import (
	"os"

	"github.com/auroralabs/bootstrapper/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
