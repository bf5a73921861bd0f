package main

import (
	"github.com/clearair/laravel-docs-mcp/internal/adapters/driving/cli"
)

func main() {
	cli.Execute()
}
