package main

import "github.com/pfrederiksen/gig-o-download/internal/cli"

func main() {
	cli.Execute()
}
