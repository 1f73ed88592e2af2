package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/godeepar/bimgeo"
)

func renderSummary(w io.Writer, pair string, result *bimgeo.Result) {
	s := result.Summary

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("bimgeo " + pair)
	t.AppendHeader(table.Row{"", "Count"})

	t.AppendRow(table.Row{"Models", s.Models})
	t.AppendRow(table.Row{"Elements", s.Elements})
	t.AppendRow(table.Row{"Features", s.Features})

	reasons := make([]string, 0, len(s.Skipped))
	for reason := range s.Skipped {
		reasons = append(reasons, string(reason))
	}
	sort.Strings(reasons)

	if len(reasons) > 0 {
		t.AppendSeparator()
		for _, reason := range reasons {
			t.AppendRow(table.Row{"Skipped: " + reason, s.Skipped[bimgeo.SkipReason(reason)]})
		}
	}

	if len(s.BBox) == 4 {
		t.AppendSeparator()
		t.AppendRow(table.Row{"BBox", fmt.Sprintf("%.6f %.6f %.6f %.6f", s.BBox[0], s.BBox[1], s.BBox[2], s.BBox[3])})
		t.AppendRow(table.Row{"Center", fmt.Sprintf("%.6f %.6f", s.Center[0], s.Center[1])})
	}
	if len(s.S2) > 0 {
		t.AppendRow(table.Row{"S2", strings.Join(s.S2, " ")})
	}

	t.SetStyle(table.StyleLight)
	t.Render()
}
