package presentation

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/term"
)

// Page displays text through $PAGER when stdout is a terminal, falling
// back to plain output otherwise.
func Page(text string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Println(text)
		return nil
	}

	pager := os.Getenv("PAGER")
	if pager == "" {
		pager = "less"
	}
	fields := strings.Fields(pager)

	cmd := exec.Command(fields[0], fields[1:]...)
	cmd.Stdin = strings.NewReader(text + "\n")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		// A missing or failing pager should not hide the output.
		fmt.Println(text)
	}
	return nil
}
