package main

import "github.com/pfrederiksen/wa-dockets/internal/cli"

var version = "dev"

func main() {
	cli.Version = version
	cli.Execute()
}
