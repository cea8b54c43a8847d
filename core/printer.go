package core

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/josephlewis42/simplesh/core/config"
	"github.com/josephlewis42/simplesh/core/vos"
)

// Printer writes command output and one line diagnostics.
type Printer struct {
	stdout io.Writer
	stderr io.Writer

	errorLabel *color.Color
	warnLabel  *color.Color
}

// NewPrinter creates a printer for stdio. mode is one of the config.Color*
// values, in auto mode color is used if stdout is a terminal.
func NewPrinter(stdio vos.VIO, mode string) *Printer {
	p := &Printer{
		stdout:     stdio.Stdout(),
		stderr:     stdio.Stderr(),
		errorLabel: color.New(color.FgRed, color.Bold),
		warnLabel:  color.New(color.FgYellow, color.Bold),
	}

	switch mode {
	case config.ColorAlways:
		p.errorLabel.EnableColor()
		p.warnLabel.EnableColor()
	case config.ColorNever:
		p.errorLabel.DisableColor()
		p.warnLabel.DisableColor()
	}

	return p
}

// Stdout returns the writer for regular output.
func (p *Printer) Stdout() io.Writer {
	return p.stdout
}

func (p *Printer) Println(a ...interface{}) {
	fmt.Fprintln(p.stdout, a...)
}

func (p *Printer) Printf(format string, a ...interface{}) {
	fmt.Fprintf(p.stdout, format, a...)
}

// Error reports err to the user.
func (p *Printer) Error(err error) {
	fmt.Fprintf(p.stderr, "%s %v\n", p.errorLabel.Sprint("Error:"), err)
}

// Warn reports a non-fatal condition to the user.
func (p *Printer) Warn(format string, a ...interface{}) {
	fmt.Fprintf(p.stderr, "%s %s\n", p.warnLabel.Sprint("Warning:"), fmt.Sprintf(format, a...))
}
