package library

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"
)

// Confirmer asks the operator a yes/no question before a destructive
// operation runs. Implementations must default to "no".
type Confirmer interface {
	Confirm(prompt string) (bool, error)
}

// SecretReader obtains the operator's secret without echoing it.
type SecretReader interface {
	ReadSecret(prompt string) (string, error)
}

// ConsolePrompter implements Confirmer and SecretReader against the
// interactive terminal. It shares the caller's scanner: stdin must have
// exactly one buffered reader, or input lines get lost between them.
type ConsolePrompter struct {
	sc  *bufio.Scanner
	out io.Writer
}

// NewConsolePrompter prompts on the given scanner and stdout.
func NewConsolePrompter(sc *bufio.Scanner) *ConsolePrompter {
	return &ConsolePrompter{sc: sc, out: os.Stdout}
}

// Confirm prints the prompt and reads a yes/no answer. Anything other than
// "yes"/"y" counts as a decline.
func (p *ConsolePrompter) Confirm(prompt string) (bool, error) {
	fmt.Fprintf(p.out, "%s (yes/no): ", prompt)
	if !p.sc.Scan() {
		if err := p.sc.Err(); err != nil {
			return false, fmt.Errorf("read confirmation: %w", err)
		}
		return false, nil
	}
	answer := strings.ToLower(strings.TrimSpace(p.sc.Text()))
	return answer == "yes" || answer == "y", nil
}

// ReadSecret reads a secret with terminal echo disabled.
func (p *ConsolePrompter) ReadSecret(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	secret, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(p.out)
	if err != nil {
		return "", fmt.Errorf("read secret: %w", err)
	}
	return strings.TrimSpace(string(secret)), nil
}
