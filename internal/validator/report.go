package validator

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-isatty"
)

// Render writes the report summary. Interactive terminals get a table;
// everything else (cron, pipes) gets plain greppable lines.
func (r *Report) Render(w io.Writer, forcePlain bool) {
	if forcePlain || !isTerminal(w) {
		r.renderPlain(w)
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"CHECK", "STATUS", "DETAIL"})
	for _, res := range r.Results {
		t.AppendRow(table.Row{res.Check, strings.ToUpper(string(res.Status)), firstLine(res.Detail)})
	}
	t.AppendFooter(table.Row{"report", r.ID, ""})
	t.Render()
}

func (r *Report) renderPlain(w io.Writer) {
	for _, res := range r.Results {
		if res.Status == StatusPassed {
			fmt.Fprintf(w, "PASS %s\n", res.Check)
			continue
		}
		fmt.Fprintf(w, "FAIL %s: %s\n", res.Check, firstLine(res.Detail))
	}
	fmt.Fprintf(w, "report %s: %d/%d checks passed\n", r.ID, len(r.Results)-r.Failed(), len(r.Results))
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
