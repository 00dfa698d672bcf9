package main

import "nx-dart/internal/cli"

func main() {
	cli.Execute()
}
