package main

import "github.com/LeJamon/goSettle/internal/cli"

func main() {
	cli.Execute()
}
