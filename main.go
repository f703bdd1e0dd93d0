package main

import "github.com/DGMadMax/MCP-RBAC/cmd"

func main() {
	cmd.Execute()
}
