package catalog

import (
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Render writes the catalog as a table.
func Render(w io.Writer, c *Catalog) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Command", "Description", "Arguments"})
	for _, name := range c.Names() {
		entry := c.commands[name]
		t.AppendRow(table.Row{name, entry.Description, strings.Join(entry.Arguments, " ")})
	}
	t.Render()
}
