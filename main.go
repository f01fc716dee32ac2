package main

import "pitchforge/cmd"

func main() {
	cmd.Execute()
}
