package netutil

import "testing"

func TestFixFeedURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{" ", ""},
		{"http://a", "http://a"},
		{"https://a/b?c=d", "https://a/b?c=d"},
		{"  http://a  ", "http://a"},
		{"feed://a", "http://a"},
		{"feed:http://a", "http://a"},
		{"feed://http://a", "http://a"},
		{"feed:feed://http://a", "http://a"},
		{"feed:https://a", "https://a"},
		{"FEED://a", "http://a"},
		{"feed:a.com/rss", "http://a.com/rss"},
	}
	for _, tt := range tests {
		if got := FixFeedURL(tt.in); got != tt.want {
			t.Fatalf("FixFeedURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFixFeedURLLeavesPlainValuesAlone(t *testing.T) {
	for _, in := range []string{"a", "ftp://x", "file:///tmp/x.xml", "/relative/path", "feedback"} {
		if got := FixFeedURL(in); got != in {
			t.Fatalf("FixFeedURL(%q) = %q, want unchanged", in, got)
		}
	}
}
