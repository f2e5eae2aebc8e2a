// Package main provides the CLI entrypoint for dto-services.
//
// dto-services maps DTOs to entities and back:
//   - inspect checks DTO links in Go source
//   - styles shows the construction style decided per DTO
//   - migrate prepares the sqlite schema
//   - demo runs the service operations on the bundled bookstore domain
package main

import (
	"os"

	"dto-services/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
