package main

import "github.com/passgen/passgen-go/cmd/passgen/cmd"

func main() {
	cmd.Run()
}
