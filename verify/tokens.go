package verify

import (
	"fmt"
	"io"

	"github.com/CedoispirDB/BFC/instr"
	"github.com/CedoispirDB/BFC/program"
	"github.com/jedib0t/go-pretty/v6/table"
)

// WriteTokens prints the token count and capacity followed by one row per
// token.
func WriteTokens(w io.Writer, insts []instr.Inst) {
	fmt.Fprintf(w, "Tokens: %d, cap: %d\n", len(insts), cap(insts))

	tokenTable := table.NewWriter()
	tokenTable.AppendHeader(table.Row{"#", "Symbol", "Op", "Offset", "Partner"})

	for i, inst := range insts {
		partner := "-"
		if inst.Partner != instr.NoPartner {
			partner = fmt.Sprint(inst.Partner)
		}

		tokenTable.AppendRow(table.Row{
			i,
			string(program.DefaultISA.Symbol(inst.Op)),
			inst.Op.String(),
			inst.Offset,
			partner,
		})
	}

	fmt.Fprintln(w, tokenTable.Render())
}
