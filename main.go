package main

import "github.com/finscreenernil/finscreener-MCP/cmd"

func main() {
	cmd.Execute()
}
