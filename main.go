package main

import "github.com/dotcommander/auditscore/cmd"

func main() {
	cmd.Execute()
}
