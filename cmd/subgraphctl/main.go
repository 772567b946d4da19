package main

import "github.com/cameronsjo/subgraphctl/internal/cmd"

func main() {
	cmd.Execute()
}
