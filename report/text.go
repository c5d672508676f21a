package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
)

const bullet = "  - "

// Text writes a plain report. Messages are wrapped to width columns; a
// width of zero or less disables wrapping.
func Text(w io.Writer, s Summary, width int) error {
	var b strings.Builder

	fmt.Fprintf(&b, "%s: %s, %s\n", s.Name, plural(s.Pages, "page"), plural(len(s.Issues), "issue"))
	if len(s.Issues) == 0 {
		b.WriteString(item(NoIssues, width))
	}
	for _, issue := range s.Issues {
		b.WriteString(item(issue.Message, width))
	}

	if len(s.Warnings) > 0 {
		b.WriteString("warnings:\n")
		for _, warn := range s.Warnings {
			b.WriteString(item(warn.String(), width))
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// TextError writes a one-line parse failure.
func TextError(w io.Writer, name string, err error) error {
	_, werr := fmt.Fprintf(w, "%s: %v\n", name, err)
	return werr
}

// item formats one bullet, wrapping and hanging-indenting its text.
func item(text string, width int) string {
	if width > len(bullet) {
		text = wordwrap.String(text, width-len(bullet))
	}
	first, rest, found := strings.Cut(text, "\n")
	if !found {
		return bullet + text + "\n"
	}
	return bullet + first + "\n" + indent.String(rest, uint(len(bullet))) + "\n"
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
