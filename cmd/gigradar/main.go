package main

import "github.com/pfrederiksen/gigradar/internal/cli"

func main() {
	cli.Execute()
}
