package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/tengjizhang/bbopml/internal/model"
	"github.com/tengjizhang/bbopml/internal/opml"
	"github.com/tengjizhang/bbopml/internal/store"
)

func requireApp(getApp func() *App) (*App, error) {
	app := getApp()
	if app == nil {
		return nil, errors.New("app not initialized")
	}
	return app, nil
}

func requireStore(getApp func() *App) (*App, error) {
	app, err := requireApp(getApp)
	if err != nil {
		return nil, err
	}
	if app.store == nil {
		return nil, errors.New("library not opened")
	}
	return app, nil
}

// sourceURL turns a command line source into the URL the importer fetches.
// Anything without a known scheme is a local path, which must carry an OPML
// file extension.
func sourceURL(src string) (string, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return "", fmt.Errorf("%w: source is required", store.ErrInvalidInput)
	}
	if u, err := url.Parse(src); err == nil {
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return src, nil
		case "file":
			if !opml.ExtensionMatches(u.Path) {
				return "", fmt.Errorf("%w: %s is not an .opml or .xml file", store.ErrInvalidInput, src)
			}
			return src, nil
		}
	}
	if !opml.ExtensionMatches(src) {
		return "", fmt.Errorf("%w: %s is not an .opml or .xml file", store.ErrInvalidInput, src)
	}
	abs, err := filepath.Abs(src)
	if err != nil {
		return "", err
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String(), nil
}

// importSource reads src, or stdin when src is "-".
func importSource(ctx context.Context, im *opml.Importer, src string, stdin io.Reader, single bool) (*model.GuideSet, string, error) {
	if strings.TrimSpace(src) == "-" {
		set, err := im.ProcessReader(ctx, stdin, single)
		return set, "stdin", err
	}
	u, err := sourceURL(src)
	if err != nil {
		return nil, "", err
	}
	set, err := im.Process(ctx, u, single)
	return set, u, err
}

type exportFlags struct {
	legacy    bool
	basic     bool
	generator string
	out       string
}

func (f exportFlags) exporter(app *App) (*opml.Exporter, error) {
	dialect := opml.DialectExtended
	if f.legacy {
		dialect = opml.DialectLegacy
	}
	gen := app.cfg.Generator
	if strings.TrimSpace(f.generator) != "" {
		gen = f.generator
	}
	return opml.NewExporter(dialect, opml.ExportOptions{
		Extended:  app.cfg.ExtendedExport && !f.basic,
		Generator: gen,
		Indent:    2,
	})
}

// write exports set to the configured file or to w.
func (f exportFlags) write(app *App, w io.Writer, set *model.GuideSet) error {
	exp, err := f.exporter(app)
	if err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidInput, err)
	}
	if strings.TrimSpace(f.out) == "" {
		return exp.WriteTo(w, set)
	}
	file, err := os.Create(f.out)
	if err != nil {
		return err
	}
	if err := exp.WriteTo(file, set); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}
