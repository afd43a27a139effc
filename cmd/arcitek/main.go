package main

import "github.com/arcitek-ai/arcitek/internal/cli"

func main() {
	cli.Execute()
}
