package main

import "playcheck/cmd/playcheck/cmd"

func main() {
	cmd.Execute()
}
