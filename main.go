package main

import "github.com/cre-scout/loopnet-mcp/cmd"

func main() {
	cmd.Execute()
}
