package main

import "github.com/triahq/tria/cmd"

func main() {
	cmd.Execute()
}
