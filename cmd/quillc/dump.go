package main

import (
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"

	"github.com/quill-lang/quill/cmd/internal/cliutil"
)

var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// cmdDump prints the class table. Diagnostics are reported but do not
// prevent the dump, so a broken hierarchy can still be inspected.
func (c *cli) cmdDump(files []string) int {
	s, _, diags, ok := c.compile(files)
	if !ok {
		return exitError
	}
	c.printDiagnostics(diags)

	var w io.Writer = c.stdout
	if c.flags.OutputFile != "" {
		f, closeOut, err := cliutil.GetOutput(c.flags.OutputFile)
		if err != nil {
			c.printError("%v", err)
			return exitError
		}
		defer closeOut()
		w = f
	}
	for _, info := range s.Classes() {
		_, _ = fmt.Fprint(w, dumpConfig.Sdump(info))
	}
	if len(diags) > 0 {
		return exitDiagnostics
	}
	return exitOK
}
