package main

import (
	"os"

	"github.com/suhelali14/SafarWay-sub004/cmd/api/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
