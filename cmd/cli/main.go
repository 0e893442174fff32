package main

import "github.com/jpmelanson/turnbase/internal/cli"

func main() {
	cli.Execute()
}
