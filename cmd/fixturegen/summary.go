package main

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"tools.zach/dev/fixturegen/internal/generate"
	"tools.zach/dev/fixturegen/internal/paths"
)

// printSummary writes a short colored report of a run to w.
func printSummary(w io.Writer, sum *generate.Summary, total int, outDir string) {
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	yellow := color.New(color.FgYellow)
	bold := color.New(color.Bold)

	mark, c := "✓", green
	if !sum.OK() {
		mark, c = "✗", red
	}
	c.Fprintf(w, "%s ", mark)
	bold.Fprintf(w, "%d/%d", len(sum.Succeeded), total)
	fmt.Fprintf(w, " images written to %s in %s\n", outDir, sum.Elapsed.Round(time.Millisecond))

	if sum.Fallbacks > 0 {
		yellow.Fprintf(w, "  %d rendered with the fallback font\n", sum.Fallbacks)
	}
	for _, f := range sum.Failed {
		red.Fprintf(w, "  %s", paths.ImageName(f.Index))
		fmt.Fprintf(w, "  %s failure: %v\n", f.Kind, f.Err)
		if f.CrossDevice {
			yellow.Fprintf(w, "    temp files and %s are on different filesystems; choose another output directory\n", outDir)
		}
	}
	if n := len(sum.Skipped); n > 0 {
		yellow.Fprintf(w, "  %d skipped after cancellation (first: %s)\n", n, paths.ImageName(sum.Skipped[0]))
	}
}
