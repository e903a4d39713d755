package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tengjizhang/bbopml/internal/model"
	"github.com/tengjizhang/bbopml/internal/opml"
	"github.com/tengjizhang/bbopml/internal/store"
)

func newTestServer(t *testing.T) (*httptest.Server, *store.Store) {
	t.Helper()
	db, err := store.OpenDB(filepath.Join(t.TempDir(), "library.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	st := store.NewStore(db)

	srv := New(st, Options{
		Generator: "bbopml",
		Extended:  true,
		Now:       func() time.Time { return time.Date(2006, time.June, 5, 0, 0, 0, 0, time.UTC) },
	}, nil)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, st
}

func saveSample(t *testing.T, st *store.Store) model.SetSummary {
	t.Helper()
	set := &model.GuideSet{
		Title: "Library",
		Guides: []*model.Guide{
			{Title: "Tech", Feeds: []model.Feed{
				&model.DirectFeed{FeedBase: model.NewFeedBase("A"), XMLURL: "http://example.com/a.xml"},
				&model.QueryFeed{FeedBase: model.NewFeedBase("Q"), QueryType: 1, QueryParam: "go"},
			}},
			{Title: "News", Feeds: []model.Feed{
				&model.DirectFeed{FeedBase: model.NewFeedBase("B"), XMLURL: "http://example.com/b.xml"},
			}},
		},
	}
	summary, err := st.SaveGuideSet(context.Background(), set, "test")
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	return summary
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, string(body)
}

func TestHealthAndList(t *testing.T) {
	ts, st := newTestServer(t)

	resp, body := get(t, ts.URL+"/healthz")
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, `"ok"`) {
		t.Fatalf("healthz: %d %s", resp.StatusCode, body)
	}

	summary := saveSample(t, st)
	resp, body = get(t, ts.URL+"/sets")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status = %d", resp.StatusCode)
	}
	var sets []model.SetSummary
	if err := json.Unmarshal([]byte(body), &sets); err != nil {
		t.Fatalf("decode list: %v\n%s", err, body)
	}
	if len(sets) != 1 || sets[0].ID != summary.ID || sets[0].Feeds != 3 {
		t.Fatalf("unexpected sets: %+v", sets)
	}
}

func TestExportSet(t *testing.T) {
	ts, st := newTestServer(t)
	summary := saveSample(t, st)

	resp, body := get(t, ts.URL+"/sets/"+summary.ID+".opml")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/x-opml") {
		t.Fatalf("content type = %q", ct)
	}
	for _, wanted := range []string{`xmlns:bb=`, `<!-- bbopml on `, `bb:queryParam="go"`} {
		if !strings.Contains(body, wanted) {
			t.Fatalf("missing %s in:\n%s", wanted, body)
		}
	}

	set, err := opml.NewImporter(nil).ProcessString(context.Background(), body, false)
	if err != nil {
		t.Fatalf("reimport: %v", err)
	}
	if set.Title != "Library" || len(set.Guides) != 2 || len(set.Guides[0].Feeds) != 2 {
		t.Fatalf("unexpected reimported set: %+v", set)
	}

	resp, body = get(t, ts.URL+"/sets/"+summary.ID+".opml?dialect=legacy")
	if resp.StatusCode != http.StatusOK || strings.Contains(body, "bb:") || !strings.Contains(body, `queryParam="go"`) {
		t.Fatalf("legacy export: %d\n%s", resp.StatusCode, body)
	}

	resp, body = get(t, ts.URL+"/sets/"+summary.ID+".opml?basic=true")
	if resp.StatusCode != http.StatusOK || strings.Contains(body, `queryParam`) {
		t.Fatalf("basic export should skip query feeds: %d\n%s", resp.StatusCode, body)
	}
}

func TestExportGuide(t *testing.T) {
	ts, st := newTestServer(t)
	summary := saveSample(t, st)

	resp, body := get(t, ts.URL+"/sets/"+summary.ID+"/guides/1.opml")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	if !strings.Contains(body, "<title>News</title>") || !strings.Contains(body, "b.xml") || strings.Contains(body, "a.xml") {
		t.Fatalf("unexpected guide document:\n%s", body)
	}

	if resp, _ := get(t, ts.URL+"/sets/"+summary.ID+"/guides/5.opml"); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("out of range index: status = %d", resp.StatusCode)
	}
	if resp, _ := get(t, ts.URL+"/sets/"+summary.ID+"/guides/x.opml"); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad index: status = %d", resp.StatusCode)
	}
}

func TestExportErrors(t *testing.T) {
	ts, st := newTestServer(t)
	summary := saveSample(t, st)

	tests := []struct {
		path string
		want int
	}{
		{"/sets/missing.opml", http.StatusNotFound},
		{"/sets/" + summary.ID + ".opml?dialect=yaml", http.StatusBadRequest},
		{"/sets/" + summary.ID + ".opml?basic=perhaps", http.StatusBadRequest},
	}
	for _, tt := range tests {
		if resp, body := get(t, ts.URL+tt.path); resp.StatusCode != tt.want {
			t.Fatalf("%s: status = %d, want %d\n%s", tt.path, resp.StatusCode, tt.want, body)
		}
	}
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	db, err := store.OpenDB(filepath.Join(t.TempDir(), "library.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- New(store.NewStore(db), Options{}, nil).ListenAndServe(ctx, "127.0.0.1:0")
	}()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("ListenAndServe: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("server did not stop")
	}
}
