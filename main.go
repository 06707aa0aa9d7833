// Command storyflow drives stories through a chain of workflow actions.
//
// See the cli package for the available commands.
package main

import "storyflow/internal/cli"

func main() {
	cli.Execute()
}
