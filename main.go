package main

import "vidresolve/cmd"

func main() {
	cmd.Execute()
}
