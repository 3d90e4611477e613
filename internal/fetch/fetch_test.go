package fetch

import "testing"

func TestFindIndexURL(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "resource suffix",
			body: `<html><head><script src="/main.js"></script>` +
				`<div id="rustdoc-vars" data-resource-suffix="1.70.0" data-root-path="../"></div></head>`,
			want: "search-index1.70.0.js",
		},
		{
			name: "search index attribute",
			body: `<div data-search-index-js="../search-index-20190523-1.36.0-nightly.js"></div>`,
			want: "search-index-20190523-1.36.0-nightly.js",
		},
		{
			name: "script src",
			body: `<script defer src="../search-index-20180717.js"></script>`,
			want: "search-index-20180717.js",
		},
		{
			name: "last occurrence wins",
			body: `data-resource-suffix="old" ... data-resource-suffix="1.75.0"`,
			want: "search-index1.75.0.js",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FindIndexURL(tt.body)
			if !ok {
				t.Fatal("index URL not found")
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFindIndexURL_Missing(t *testing.T) {
	if _, ok := FindIndexURL(`<html><body>a normal page</body></html>`); ok {
		t.Error("found an index URL in a page without one")
	}
}

func TestVersionFromPageURL(t *testing.T) {
	v, err := versionFromPageURL("https://docs.rs/anyhow/1.0.75/anyhow/")
	if err != nil {
		t.Fatal(err)
	}
	if v.String() != "1.0.75" {
		t.Errorf("got %q, want 1.0.75", v)
	}
}

func TestVersionFromPageURL_Invalid(t *testing.T) {
	for _, url := range []string{
		"https://docs.rs/anyhow",
		"https://docs.rs/anyhow//anyhow/",
	} {
		if _, err := versionFromPageURL(url); err == nil {
			t.Errorf("expected error for %q", url)
		}
	}
}

func TestLastSegment(t *testing.T) {
	tests := []struct{ in, want string }{
		{"search-index1.70.0.js", "search-index1.70.0.js"},
		{"static/search-index1.70.0.js", "search-index1.70.0.js"},
		{"a/b/c.js", "c.js"},
	}
	for _, tt := range tests {
		if got := lastSegment(tt.in); got != tt.want {
			t.Errorf("lastSegment(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
