package main

import (
	"fmt"

	"github.com/quill-lang/quill/cmd/internal/cliutil"
)

func (c *cli) cmdCheck(files []string) int {
	_, _, diags, ok := c.compile(files)
	if !ok {
		return exitError
	}
	if len(diags) > 0 {
		c.printDiagnostics(diags)
		return exitDiagnostics
	}
	return exitOK
}

func (c *cli) cmdBuild(files []string) int {
	_, out, diags, ok := c.compile(files)
	if !ok {
		return exitError
	}
	if len(diags) > 0 {
		c.printDiagnostics(diags)
		return exitDiagnostics
	}

	if c.flags.OutputFile == "" {
		_, _ = fmt.Fprint(c.stdout, out)
		return exitOK
	}
	w, closeOut, err := cliutil.GetOutput(c.flags.OutputFile)
	if err != nil {
		c.printError("%v", err)
		return exitError
	}
	defer closeOut()
	if _, err := fmt.Fprint(w, out); err != nil {
		c.printError("writing %s: %v", c.flags.OutputFile, err)
		return exitError
	}
	return exitOK
}
