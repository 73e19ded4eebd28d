package client

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
)

func newTable(w io.Writer) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	return tw
}

// RenderReply prints one reply envelope.
func RenderReply(w io.Writer, r *Reply) {
	tw := newTable(w)
	tw.AppendHeader(table.Row{"Code", "Request ID", "Response", "Error"})
	tw.AppendRow(table.Row{r.Code, r.RequestID, string(r.Response), r.Error})
	tw.Render()
}

// RenderInterests prints one row per client.
func RenderInterests(w io.Writer, entries []ClientInterests) {
	tw := newTable(w)
	tw.AppendHeader(table.Row{"Client", "Interests"})
	for _, e := range entries {
		tw.AppendRow(table.Row{e.ID, strings.Join(e.Interests, ", ")})
	}
	tw.Render()
}

// RenderStats prints a load summary.
func RenderStats(w io.Writer, s *Stats) {
	tw := newTable(w)
	tw.AppendHeader(table.Row{"Code", "Count"})
	for _, c := range s.Codes() {
		tw.AppendRow(table.Row{strconv.Itoa(c), s.ByCode[c]})
	}
	tw.AppendSeparator()
	tw.AppendRow(table.Row{"failed", s.Failed})
	tw.AppendFooter(table.Row{"total", s.Requests})
	tw.SetCaption("%s elapsed, %.1f req/s", s.Duration.Round(time.Millisecond), s.RequestsPerSecond())
	tw.Render()
}
