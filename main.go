package main

import "github.com/dotcommander/vfxlint/cmd"

func main() {
	cmd.Execute()
}
