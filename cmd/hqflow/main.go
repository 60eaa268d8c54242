package main

import (
	"os"

	"github.com/open-politics/open-politics-hq-sub007/cmd/hqflow/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
