// Package presenter provides consistent user-facing CLI output: success,
// warning, error and informational messages with color support.
package presenter

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Presenter writes user-facing messages.
type Presenter struct {
	out    io.Writer
	errOut io.Writer
	in     io.Reader
}

// New creates a presenter on stdout/stderr.
func New() *Presenter {
	return &Presenter{out: os.Stdout, errOut: os.Stderr, in: os.Stdin}
}

// NewWithWriters creates a presenter with custom streams, used in tests.
func NewWithWriters(out, errOut io.Writer, in io.Reader) *Presenter {
	return &Presenter{out: out, errOut: errOut, in: in}
}

var defaultPresenter = New()

func (p *Presenter) Success(message string) {
	fmt.Fprintln(p.out, color.GreenString("✓ %s", message))
}

func (p *Presenter) Warning(message string) {
	fmt.Fprintln(p.errOut, color.YellowString("! %s", message))
}

func (p *Presenter) Error(err error, context string) {
	fmt.Fprintln(p.errOut, color.RedString("✗ %s: %v", context, err))
}

func (p *Presenter) Info(message string) {
	fmt.Fprintln(p.out, message)
}

func (p *Presenter) Section(title string) {
	fmt.Fprintln(p.out, color.New(color.Bold).Sprint(title))
}

// Confirm asks a yes/no question and reports whether the user approved.
func (p *Presenter) Confirm(prompt string) bool {
	fmt.Fprintf(p.out, "%s\n%s ", prompt, color.New(color.Bold).Sprint("Proceed? [y/N]"))
	reader := bufio.NewReader(p.in)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

// Package-level helpers writing through the default presenter.

func Success(message string)          { defaultPresenter.Success(message) }
func Warning(message string)          { defaultPresenter.Warning(message) }
func Error(err error, context string) { defaultPresenter.Error(err, context) }
func Info(message string)             { defaultPresenter.Info(message) }
func Section(title string)            { defaultPresenter.Section(title) }
func Confirm(prompt string) bool      { return defaultPresenter.Confirm(prompt) }
