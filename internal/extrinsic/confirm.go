package extrinsic

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Mohsinsiddi/inkctl/internal/ui"
)

// ErrDeclined is returned when the operator answers "n" at the prompt.
var ErrDeclined = errors.New("Transaction not submitted") //nolint:staticcheck // shown to the operator as-is

// InvalidInputError is returned for any answer other than y, n or empty.
type InvalidInputError struct {
	Input string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("Expected either 'y' or 'n', got '%s'", e.Input)
}

// Gate asks the operator to approve a transaction.
type Gate struct {
	in  *bufio.Reader
	out io.Writer
}

// NewGate reads answers from in and writes the prompt to out.
func NewGate(in io.Reader, out io.Writer) *Gate {
	return &Gate{in: bufio.NewReader(in), out: out}
}

// Confirm prints the header, calls render to print the summary, then blocks
// for one line. "" and "y" proceed, "n" declines, case-insensitively.
// Closed input with nothing typed is an error rather than an empty answer,
// so a detached stdin never submits; use --skip-confirm for scripts.
func (g *Gate) Confirm(render func()) error {
	fmt.Fprintln(g.out, ui.ConfirmHeader())
	render()
	fmt.Fprint(g.out, ui.SubmitPrompt())

	line, err := g.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return fmt.Errorf("reading confirmation: %w", err)
	}
	answer := strings.TrimSpace(line)
	switch strings.ToLower(answer) {
	case "", "y":
		return nil
	case "n":
		return ErrDeclined
	default:
		return &InvalidInputError{Input: answer}
	}
}
