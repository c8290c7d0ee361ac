package messages

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	ColorError  = color.New(color.FgRed, color.Bold)
	ColorNotice = color.New(color.FgCyan)
)

// errorKeys are rendered with ColorError when color is on.
var errorKeys = map[string]bool{
	KeyUnknownCommand:        true,
	KeyCreateCommandError:    true,
	KeyScriptParseError:      true,
	KeyScriptNotFound:        true,
	KeyCommandExecutionError: true,
	KeyUnsupportedLanguage:   true,
}

// Printer writes catalog messages to an output.
type Printer struct {
	Catalog Catalog
	Out     io.Writer
	// Color enables ANSI colors for errors and notices.
	Color bool
}

// NewPrinter creates a printer without colors.
func NewPrinter(catalog Catalog, out io.Writer) *Printer {
	return &Printer{Catalog: catalog, Out: out}
}

// Print writes the message for key in lang followed by a newline. Keys
// missing from the catalog print nothing.
func (p *Printer) Print(lang, key string, args Args) {
	tmpl, ok := p.Catalog.Template(key, lang)
	if !ok {
		return
	}
	msg := Format(tmpl, args)

	if !p.Color {
		fmt.Fprintln(p.Out, msg)
		return
	}

	switch {
	case errorKeys[key]:
		ColorError.Fprintln(p.Out, msg)
	case key == KeyDidYouMean:
		ColorNotice.Fprintln(p.Out, msg)
	default:
		fmt.Fprintln(p.Out, msg)
	}
}
