package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/tengjizhang/bbopml/internal/model"
	"github.com/tengjizhang/bbopml/internal/store"
)

type OutputFormat = model.OutputFormat

func parseOutputFormat(raw string) (OutputFormat, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch OutputFormat(s) {
	case model.OutputTable, model.OutputJSON, model.OutputYAML:
		return OutputFormat(s), nil
	default:
		return "", fmt.Errorf("%w: invalid output format %q (expected table|json|yaml)", store.ErrInvalidInput, raw)
	}
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(out io.Writer, v any) error {
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// writeStructured handles the json and yaml formats and reports whether it
// wrote anything.
func writeStructured(out io.Writer, format OutputFormat, v any) (bool, error) {
	switch format {
	case model.OutputJSON:
		return true, writeJSON(out, v)
	case model.OutputYAML:
		return true, writeYAML(out, v)
	default:
		return false, nil
	}
}

func writeSetsTable(out io.Writer, sets []model.SetSummary) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tGUIDES\tFEEDS\tIMPORTED\tSOURCE")
	for _, s := range sets {
		fmt.Fprintf(
			tw,
			"%s\t%s\t%d\t%d\t%s\t%s\n",
			s.ID,
			compactText(s.Title, 40),
			s.Guides,
			s.Feeds,
			formatDate(s.ImportedAt),
			compactText(fallback(s.Source, "-"), 56),
		)
	}
	_ = tw.Flush()
}

func writeGuidesTable(out io.Writer, set *model.GuideSet) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tGUIDE\tDIRECT\tQUERY\tSEARCH\tREADING_LISTS")
	for i, g := range set.Guides {
		var direct, query, search int
		for _, f := range g.Feeds {
			switch f.Kind() {
			case model.KindDirect:
				direct++
			case model.KindQuery:
				query++
			case model.KindSearch:
				search++
			}
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%d\n", i, compactText(g.Title, 40), direct, query, search, len(g.ReadingLists))
	}
	_ = tw.Flush()
}

func writeFeedsTable(out io.Writer, feeds []*model.DirectFeed) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TITLE\tXML_URL\tHTML_URL")
	for _, f := range feeds {
		fmt.Fprintf(
			tw,
			"%s\t%s\t%s\n",
			compactText(fallback(f.Title, "-"), 40),
			compactText(f.XMLURL, 64),
			compactText(fallback(f.HTMLURL, "-"), 48),
		)
	}
	_ = tw.Flush()
}

func writeCheckTable(out io.Writer, results []model.CheckResult) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "GUIDE\tTITLE\tITEMS\tSTATUS\tURL")
	for _, r := range results {
		status := "ok"
		if r.Error != "" {
			status = compactText(r.Error, 48)
		}
		if r.Alternate != "" {
			status += " (try " + r.Alternate + ")"
		}
		fmt.Fprintf(
			tw,
			"%s\t%s\t%d\t%s\t%s\n",
			compactText(r.Guide, 24),
			compactText(fallback(r.Title, "-"), 36),
			r.Items,
			status,
			compactText(r.URL, 56),
		)
	}
	_ = tw.Flush()
}
