package sink

import (
	"fmt"
	"strings"

	"github.com/enescakir/emoji"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/txflow/txflow/internal/amount"
	"github.com/txflow/txflow/internal/result"
)

// PreviewTable renders up to maxRows mappings as a human-readable
// table, grounded on the teacher's cmd/broadcaster-cli utxo table
// builder. It is purely a CLI convenience alongside the mandatory CSV
// output and carries no ordering guarantees beyond insertion order.
func PreviewTable(mappings []result.Mapping, maxRows int) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "Groups", "Input", "Output", "Diff", "Balanced"})

	shown := mappings
	truncated := false
	if maxRows > 0 && len(shown) > maxRows {
		shown = shown[:maxRows]
		truncated = true
	}

	for i, m := range shown {
		mark := emoji.CrossMark
		if m.TotalDifference >= 0 {
			mark = emoji.CheckMarkButton
		}
		t.AppendRow(table.Row{
			i + 1,
			m.GroupCount,
			amount.FromSatoshis(m.TotalInput).String(),
			amount.FromSatoshis(m.TotalOutput).String(),
			amount.FromSatoshis(m.TotalDifference).String(),
			mark.String(),
		})
	}

	var b strings.Builder
	b.WriteString(t.Render())
	if truncated {
		fmt.Fprintf(&b, "\n... %d more mapping(s) omitted\n", len(mappings)-maxRows)
	}
	return b.String()
}
