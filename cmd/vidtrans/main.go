package main

import "github.com/devbush/vidtrans/internal/adapters/cli"

func main() {
	cli.Execute()
}
