package main

import "github.com/mcoot/mastermind-go/internal/cli"

func main() {
	cli.Execute()
}
