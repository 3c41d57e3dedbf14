package article

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/podwavelabs/podwave-core/internal/config"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
  <title>Widget News - Example Site</title>
  <meta property="og:title" content="Widgets Are Back">
  <style>p { color: red }</style>
</head>
<body>
  <nav><p>Home | About | Contact</p></nav>
  <h1>Widgets Are Back</h1>
  <p>After a decade of decline, widget manufacturing is growing again
     across three continents.</p>
  <p>Analysts point to cheaper materials and a wave of automation that
     cut production costs nearly in half.</p>
  <script>trackPageView();</script>
  <footer><p>Copyright 2026</p></footer>
</body>
</html>`

func testArticleConfig() config.ArticleConfig {
	cfg := config.Default().Article
	cfg.MinTextChars = 50
	return cfg
}

func TestExtract(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	ext := NewHTTPExtractor(testArticleConfig())
	art, err := ext.Extract(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if art.Title != "Widgets Are Back" {
		t.Fatalf("expected og:title, got %q", art.Title)
	}
	if !strings.Contains(art.Text, "widget manufacturing is growing") {
		t.Fatalf("missing paragraph text: %q", art.Text)
	}
	if strings.Contains(art.Text, "trackPageView") {
		t.Fatal("script content leaked into text")
	}
	if strings.Contains(art.Text, "Home | About") {
		t.Fatal("nav content leaked into text")
	}
	if strings.Contains(art.Text, "Copyright") {
		t.Fatal("footer content leaked into text")
	}
	if gotUA == "" {
		t.Fatal("expected user agent header")
	}
}

func TestExtractRejectsShortArticles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><p>Too short.</p></body></html>`))
	}))
	defer srv.Close()

	ext := NewHTTPExtractor(testArticleConfig())
	if _, err := ext.Extract(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error for short article")
	}
}

func TestExtractRejectsBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	ext := NewHTTPExtractor(testArticleConfig())
	if _, err := ext.Extract(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error for 404")
	}
}

func TestExtractRejectsNonHTTPURL(t *testing.T) {
	ext := NewHTTPExtractor(testArticleConfig())
	if _, err := ext.Extract(context.Background(), "ftp://example.com/a"); err == nil {
		t.Fatal("expected error for non-http url")
	}
}

func TestExtractFallsBackToTitleTag(t *testing.T) {
	page := `<html><head><title>Plain Title</title></head><body>` +
		`<p>` + strings.Repeat("sentence ", 20) + `</p></body></html>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(page))
	}))
	defer srv.Close()

	ext := NewHTTPExtractor(testArticleConfig())
	art, err := ext.Extract(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if art.Title != "Plain Title" {
		t.Fatalf("expected title tag fallback, got %q", art.Title)
	}
}
