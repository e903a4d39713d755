package opml

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/beevik/etree"

	"github.com/tengjizhang/bbopml/internal/format"
	"github.com/tengjizhang/bbopml/internal/model"
)

// ExportOptions controls both export dialects.
type ExportOptions struct {
	// Extended adds application metadata such as article keys, view
	// settings and publishing flags.
	Extended bool
	// Generator, when set, is written as a leading comment with the
	// export date.
	Generator string
	Now       func() time.Time
	// Indent is the number of spaces per level; zero writes a compact document.
	Indent int
}

// guideWriter serializes guides in one dialect.
type guideWriter interface {
	declare(root *etree.Element)
	writeGuide(body *etree.Element, g *model.Guide) error
}

// Exporter writes guide sets as OPML documents.
type Exporter struct {
	opts ExportOptions
	w    guideWriter
}

// NewExtendedExporter writes the namespaced dialect.
func NewExtendedExporter(opts ExportOptions) *Exporter {
	return &Exporter{opts: opts, w: extendedWriter{extended: opts.Extended}}
}

// NewLegacyExporter writes the flat, unqualified dialect.
func NewLegacyExporter(opts ExportOptions) *Exporter {
	return &Exporter{opts: opts, w: legacyWriter{extended: opts.Extended}}
}

// Dialect names an export dialect.
type Dialect string

const (
	DialectExtended Dialect = "extended"
	DialectLegacy   Dialect = "legacy"
)

// NewExporter returns the exporter for a dialect name. An empty name selects
// the extended dialect.
func NewExporter(dialect Dialect, opts ExportOptions) (*Exporter, error) {
	switch Dialect(strings.ToLower(strings.TrimSpace(string(dialect)))) {
	case DialectExtended, "":
		return NewExtendedExporter(opts), nil
	case DialectLegacy:
		return NewLegacyExporter(opts), nil
	default:
		return nil, fmt.Errorf("unknown dialect %q", dialect)
	}
}

func (e *Exporter) Export(set *model.GuideSet) (*etree.Document, error) {
	if set == nil {
		return nil, fmt.Errorf("export: nil guide set")
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	if gen := strings.TrimSpace(e.opts.Generator); gen != "" {
		doc.CreateComment(fmt.Sprintf(" %s on %s ", gen, e.now().UTC().Format(format.DateLayout)))
	}

	root := doc.CreateElement(format.TagOPML)
	root.CreateAttr("version", format.Version)
	e.w.declare(root)

	head := root.CreateElement(format.TagHead)
	head.CreateElement(format.TagTitle).SetText(set.Title)
	if set.DateModified != nil {
		head.CreateElement(format.TagDateModified).SetText(set.DateModified.UTC().Format(format.DateLayout))
	}

	body := root.CreateElement(format.TagBody)
	for _, g := range set.Guides {
		if g == nil {
			continue
		}
		if err := e.w.writeGuide(body, g); err != nil {
			return nil, err
		}
	}

	if e.opts.Indent > 0 {
		doc.Indent(e.opts.Indent)
	}
	return doc, nil
}

// ExportGuide exports a single guide as a document titled after it.
func (e *Exporter) ExportGuide(g *model.Guide) (*etree.Document, error) {
	if g == nil {
		return nil, fmt.Errorf("export: nil guide")
	}
	return e.Export(&model.GuideSet{Title: g.Title, Guides: []*model.Guide{g}})
}

func (e *Exporter) WriteTo(w io.Writer, set *model.GuideSet) error {
	doc, err := e.Export(set)
	if err != nil {
		return err
	}
	_, err = doc.WriteTo(w)
	return err
}

func (e *Exporter) ExportString(set *model.GuideSet) (string, error) {
	doc, err := e.Export(set)
	if err != nil {
		return "", err
	}
	return doc.WriteToString()
}

func (e *Exporter) now() time.Time {
	if e.opts.Now != nil {
		return e.opts.Now()
	}
	return time.Now()
}

func setAttr(el *etree.Element, name, value string) {
	el.CreateAttr(name, value)
}

// setAttrIfSet writes the trimmed value unless it is blank.
func setAttrIfSet(el *etree.Element, name, value string) {
	if v := strings.TrimSpace(value); v != "" {
		el.CreateAttr(name, v)
	}
}

func setIntIfSet(el *etree.Element, name string, v int) {
	if v != model.Unset {
		el.CreateAttr(name, fmt.Sprint(v))
	}
}

func setBool(el *etree.Element, name string, v bool) {
	el.CreateAttr(name, fmt.Sprint(v))
}

// setTrue writes name="true" only when v holds.
func setTrue(el *etree.Element, name string, v bool) {
	if v {
		setBool(el, name, true)
	}
}
