// Package main is the entry point for the ripple CLI tool.
package main

import (
	"ripple/internal/cmd"
)

func main() {
	cmd.Execute()
}
