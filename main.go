package main

import "github.com/jsphweid/chordstave/cmd"

func main() {
	cmd.Execute()
}
