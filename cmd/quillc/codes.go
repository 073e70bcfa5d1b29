package main

import (
	"fmt"

	"github.com/quill-lang/quill"
	"github.com/quill-lang/quill/cmd/internal/cliutil"
)

func (c *cli) cmdCodes() int {
	rows := [][]string{{"CODE", "PHASE"}}
	for _, info := range quill.DiagnosticCodes() {
		rows = append(rows, []string{info.Code, info.Phase})
	}
	_, _ = fmt.Fprint(c.stdout, cliutil.Columns(rows))
	return exitOK
}
