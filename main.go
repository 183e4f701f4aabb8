package main

import (
	"embed"
	"os"

	"github.com/msalah0e/schemaview/cmd"
)

//go:embed schemas/*.json schemas/*.yaml schemas/*.toml
var samplesFS embed.FS

func main() {
	cmd.SetSamplesFS(samplesFS)
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
