package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tengjizhang/bbopml/internal/config"
	"github.com/tengjizhang/bbopml/internal/model"
	"github.com/tengjizhang/bbopml/internal/opml"
	"github.com/tengjizhang/bbopml/internal/store"
)

func testConfig(dbPath string) config.Config {
	return config.Config{
		DBPath:           dbPath,
		HTTPTimeout:      10 * time.Second,
		UserAgent:        "bbopml-test/1.0",
		Generator:        "bbopml-test",
		ExtendedExport:   true,
		CheckConcurrency: 2,
		ListenAddr:       "127.0.0.1:0",
		LogLevel:         "error",
	}
}

func execCLI(dbPath string, stdin string, args ...string) (string, error) {
	cmd := NewRootCmd(testConfig(dbPath))
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--db", dbPath}, args...))
	err := cmd.Execute()
	return stdout.String(), err
}

func runCLI(t *testing.T, dbPath string, args ...string) string {
	t.Helper()
	out, err := execCLI(dbPath, "", args...)
	if err != nil {
		t.Fatalf("command failed (%v): %v", args, err)
	}
	return out
}

func writeOPMLFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.opml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write opml: %v", err)
	}
	return path
}

func sampleOPML(feedURL string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<opml version="1.1" xmlns:bb="http://blogbridge.com/ns/2006/opml">
  <head><title>My Library</title></head>
  <body>
    <outline text="Tech" bb:icon="cmp.icon.tech">
      <outline text="Feed A" xmlUrl="` + feedURL + `" bb:rating="3"/>
      <outline text="Go news" type="search" bb:query="golang"/>
    </outline>
    <outline text="News">
      <outline text="Feed B" xmlUrl="feed://example.invalid/b.xml"/>
    </outline>
  </body>
</opml>`
}

func TestCLICommandFlow(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "library.db")

	const feedXML = `<?xml version="1.0"?>
<rss version="2.0"><channel>
<title>Feed A</title><link>https://example.com</link><description>desc</description>
<item><guid>1</guid><title>One</title></item>
</channel></rss>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/a.xml" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(feedXML))
	}))
	defer srv.Close()

	src := writeOPMLFile(t, sampleOPML(srv.URL+"/a.xml"))

	var imported ImportResponse
	if err := json.Unmarshal([]byte(runCLI(t, dbPath, "import", src, "-o", "json")), &imported); err != nil {
		t.Fatalf("decode import response: %v", err)
	}
	if imported.Saved == nil || imported.Saved.Guides != 2 || imported.Saved.Feeds != 3 {
		t.Fatalf("unexpected import response: %+v", imported.Saved)
	}
	if !strings.HasPrefix(imported.Source, "file://") {
		t.Fatalf("source = %q, want a file url", imported.Source)
	}
	id := imported.Saved.ID

	if out := runCLI(t, dbPath, "list"); !strings.Contains(out, id) || !strings.Contains(out, "My Library") {
		t.Fatalf("list output missing set:\n%s", out)
	}

	var feeds []*model.DirectFeed
	if err := yaml.Unmarshal([]byte(runCLI(t, dbPath, "feeds", id, "-o", "yaml")), &feeds); err != nil {
		t.Fatalf("decode feeds yaml: %v", err)
	}
	if len(feeds) != 2 || feeds[1].XMLURL != "http://example.invalid/b.xml" {
		t.Fatalf("unexpected feeds: %+v", feeds)
	}

	exported := runCLI(t, dbPath, "export", id)
	if !strings.Contains(exported, `bb:icon="cmp.icon.tech"`) || !strings.Contains(exported, `bb:query="golang"`) {
		t.Fatalf("unexpected extended export:\n%s", exported)
	}
	if !strings.Contains(exported, "<!-- bbopml-test on ") {
		t.Fatalf("missing generator comment:\n%s", exported)
	}

	legacy := runCLI(t, dbPath, "export", id, "--legacy", "--basic", "--guide", "1")
	if strings.Contains(legacy, "bb:") || !strings.Contains(legacy, "<title>News</title>") || strings.Contains(legacy, "Feed A") {
		t.Fatalf("unexpected legacy guide export:\n%s", legacy)
	}

	var report CheckReport
	if err := json.Unmarshal([]byte(runCLI(t, dbPath, "check", id, "-o", "json")), &report); err != nil {
		t.Fatalf("decode check report: %v", err)
	}
	if report.Total != 2 || report.Failed != 1 {
		t.Fatalf("unexpected check report: %+v", report)
	}
	if report.Results[0].Items != 1 || report.Results[0].Guide != "Tech" {
		t.Fatalf("unexpected first result: %+v", report.Results[0])
	}

	if out := runCLI(t, dbPath, "remove", id); !strings.Contains(out, "Removed guide set "+id) {
		t.Fatalf("unexpected remove output: %s", out)
	}
	_, err := execCLI(dbPath, "", "export", id)
	if !errors.Is(err, store.ErrNotFound) || ErrorExitCode(err) != exitNotFound {
		t.Fatalf("expected not-found after remove, got %v", err)
	}
}

func TestImportDryRunFromStdin(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "library.db")
	out, err := execCLI(dbPath, sampleOPML("http://example.com/a.xml"), "import", "-", "--dry-run", "--single")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if !strings.Contains(out, `Parsed "My Library" (not saved)`) {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if out := runCLI(t, dbPath, "list"); !strings.Contains(out, "No guide sets stored") {
		t.Fatalf("dry run must not save:\n%s", out)
	}
}

func TestConvertDoesNotOpenLibrary(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "never.db")
	src := writeOPMLFile(t, sampleOPML("http://example.com/a.xml"))
	target := filepath.Join(t.TempDir(), "out.opml")

	runCLI(t, dbPath, "convert", src, "--legacy", "--out", target)
	if _, err := os.Stat(dbPath); !os.IsNotExist(err) {
		t.Fatalf("convert should not create the library, stat err: %v", err)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read converted file: %v", err)
	}
	if strings.Contains(string(data), "xmlns:bb") || !strings.Contains(string(data), `query="golang"`) {
		t.Fatalf("unexpected converted document:\n%s", data)
	}
}

func TestVersionCompare(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "never.db")
	if out := strings.TrimSpace(runCLI(t, dbPath, "version-compare", "1.2.3", "1.10")); out != "-1" {
		t.Fatalf("version-compare = %q, want -1", out)
	}
	var resp VersionCompareResponse
	if err := json.Unmarshal([]byte(runCLI(t, dbPath, "version-compare", "2.0", "2", "-o", "json")), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Result != 0 {
		t.Fatalf("result = %d, want 0", resp.Result)
	}
	if _, err := os.Stat(dbPath); !os.IsNotExist(err) {
		t.Fatalf("version-compare should not create the library")
	}
}

func TestCLIErrorsMapToExitCodes(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "library.db")
	notOPML := writeOPMLFile(t, `<rss version="2.0"/>`)

	tests := []struct {
		name string
		args []string
		code int
	}{
		{"bad output", []string{"list", "-o", "xml"}, exitInvalidInput},
		{"parse failure", []string{"import", notOPML}, exitInvalidInput},
		{"missing file", []string{"import", filepath.Join(t.TempDir(), "missing.opml")}, exitIO},
		{"malformed url", []string{"import", "http://"}, exitInvalidInput},
		{"unknown set", []string{"remove", "nope"}, exitNotFound},
		{"not an opml file", []string{"import", filepath.Join(t.TempDir(), "notes.txt")}, exitInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execCLI(dbPath, "", tt.args...)
			if err == nil {
				t.Fatalf("expected error")
			}
			if code := ErrorExitCode(err); code != tt.code {
				t.Fatalf("exit code = %d, want %d (%v)", code, tt.code, err)
			}
		})
	}
}

func TestFormatError(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{store.ErrNotFound, "Error [not-found]"},
		{opml.ErrIO, "Error [io]"},
		{opml.ErrParsing, "Error [invalid-input]"},
		{errors.New("boom"), "Error [internal]"},
	}
	for _, tt := range tests {
		if got := FormatError(tt.err); !strings.HasPrefix(got, tt.want) {
			t.Fatalf("FormatError(%v) = %q, want prefix %q", tt.err, got, tt.want)
		}
	}
	if FormatError(nil) != "" || ErrorExitCode(nil) != 0 {
		t.Fatalf("nil error should format empty with exit code 0")
	}
}
