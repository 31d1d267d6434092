// Command chatmate is a terminal client for an LLM chat and PDF summary backend.
package main

import "github.com/diogo/chatmate/internal/commands"

func main() {
	commands.Execute()
}
