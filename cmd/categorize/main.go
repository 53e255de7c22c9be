package main

import "github.com/vietddude/categorizer/internal/cli"

func main() {
	cli.Execute()
}
