package main

import "github.com/mcoot/slotmachine-go/internal/cli"

func main() {
	cli.Execute()
}
