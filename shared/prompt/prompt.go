// Package prompt implements the interactive yes/no protocol used to
// gate the git stages. Acceptance is case-insensitive "y" or "yes";
// an empty line selects the default.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"
)

// Confirmer reads confirmation answers from a single buffered reader so
// consecutive prompts within one run share the input stream.
type Confirmer struct {
	in  *bufio.Reader
	out io.Writer
}

// New returns a Confirmer reading answers from r and writing prompts to w.
func New(r io.Reader, w io.Writer) *Confirmer {
	return &Confirmer{in: bufio.NewReader(r), out: w}
}

// Confirm asks a yes/no question and returns the answer.
func (c *Confirmer) Confirm(message string, def bool) bool {
	suffix := " [y/N]: "
	if def {
		suffix = " [Y/n]: "
	}
	fmt.Fprintf(c.out, "%s %s%s", text.FgYellow.Sprint("[?]"), message, suffix)

	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		return def
	}
	resp := strings.ToLower(strings.TrimSpace(line))
	if resp == "" {
		return def
	}
	return resp == "y" || resp == "yes"
}
