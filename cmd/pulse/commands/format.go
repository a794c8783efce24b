package commands

import (
	"fmt"
)

// Common formatting utilities so every command prints the same shapes.

func printHeader(title string) {
	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Printf("  %s\n", title)
	fmt.Println("───────────────────────────────────────────────────────────")
}

func printSeparator() {
	fmt.Println("───────────────────────────────────────────────────────────")
}

func printSuccess(message string) {
	fmt.Println()
	fmt.Printf("✅ %s\n", message)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
