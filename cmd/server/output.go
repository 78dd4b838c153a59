package main

import (
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/quimicadatos/cuadro-search/internal/catalog"
	"github.com/quimicadatos/cuadro-search/internal/search"
)

var plainMarks = strings.NewReplacer(search.MarkOpen, "[", search.MarkClose, "]")

// plainSnippet renders a snippet fragment for a terminal.
func plainSnippet(fragment string) string {
	return html.UnescapeString(plainMarks.Replace(fragment))
}

func printResults(w io.Writer, results []search.Result) {
	fmt.Fprintf(w, "%d resultados\n", len(results))
	for _, r := range results {
		fmt.Fprintf(w, "\nGrupo Nº %s — %s (score %d)\n", r.Document.ID, r.Document.Label, r.Score)
		fmt.Fprintf(w, "  %s\n", plainSnippet(r.Snippet))
		fmt.Fprintf(w, "  %s\n", r.Document.SourceRef)
	}
}

func printGroups(w io.Writer, groups []catalog.Group) {
	for _, g := range groups {
		fmt.Fprintf(w, "%2d  %-50s %s\n", g.Number, g.Name, g.Href)
	}
}

func joinArgs(args []string) string {
	return strings.Join(args, " ")
}
