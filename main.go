package main

import "github.com/josephlewis42/nesh/cmd"

func main() {
	cmd.Execute()
}
