// Command sgschemasync generates TypeScript API clients and react-query
// hooks from OpenAPI 3.x specifications.
package main

import (
	"fmt"
	"os"

	sgschemasync "github.com/studiographene/SGSchemaSync"
	"github.com/studiographene/SGSchemaSync/cmd/sgschemasync/commands"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "version", "-v", "--version":
		fmt.Printf("sgschemasync v%s\n", sgschemasync.Version())
	case "help", "-h", "--help":
		printUsage()
	case "generate":
		if err := commands.HandleGenerate(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "validate":
		if err := commands.HandleValidate(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("sgschemasync - TypeScript client and hook generation from OpenAPI specifications")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  sgschemasync <command> [flags]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  generate    Generate clients, types, and hooks from a specification")
	fmt.Println("  validate    Parse a specification and report whether it is generatable")
	fmt.Println("  version     Print the version")
	fmt.Println("  help        Show this help")
	fmt.Println()
	fmt.Println("Run 'sgschemasync <command> -h' for command-specific flags.")
}
