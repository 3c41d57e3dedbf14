// Package article fetches web pages and extracts readable text for script
// generation.
package article

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/podwavelabs/podwave-core/internal/config"
)

// Article is the extracted content of one web page.
type Article struct {
	URL   string
	Title string
	Text  string
}

// Extractor turns a URL into article content.
type Extractor interface {
	Extract(ctx context.Context, url string) (Article, error)
}

// HTTPExtractor fetches pages over HTTP and pulls title plus paragraph
// text out of the markup. Script, style, nav and footer subtrees are
// skipped since they never carry article prose.
type HTTPExtractor struct {
	cfg        config.ArticleConfig
	httpClient *http.Client
}

var _ Extractor = (*HTTPExtractor)(nil)

func NewHTTPExtractor(cfg config.ArticleConfig) *HTTPExtractor {
	return &HTTPExtractor{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond,
		},
	}
}

func (e *HTTPExtractor) Extract(ctx context.Context, url string) (Article, error) {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return Article{}, fmt.Errorf("article url must be http or https, got %q", url)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Article{}, err
	}
	req.Header.Set("User-Agent", e.cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return Article{}, fmt.Errorf("fetch article: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Article{}, fmt.Errorf("fetch article: unexpected status %d", resp.StatusCode)
	}

	body := io.Reader(resp.Body)
	if e.cfg.MaxBodyBytes > 0 {
		body = io.LimitReader(resp.Body, e.cfg.MaxBodyBytes)
	}

	doc, err := html.Parse(body)
	if err != nil {
		return Article{}, fmt.Errorf("parse article html: %w", err)
	}

	art := Article{
		URL:   url,
		Title: extractTitle(doc),
		Text:  extractText(doc),
	}
	if len(art.Text) < e.cfg.MinTextChars {
		return Article{}, fmt.Errorf("article too short: %d chars, need %d", len(art.Text), e.cfg.MinTextChars)
	}
	return art, nil
}

func extractTitle(doc *html.Node) string {
	// An og:title is usually cleaner than the <title> tag, which tends to
	// carry the site name as a suffix.
	if og := findMetaContent(doc, "og:title"); og != "" {
		return og
	}
	var title string
	walk(doc, func(n *html.Node) bool {
		if title == "" && n.Type == html.ElementNode && n.Data == "title" && n.FirstChild != nil {
			title = strings.TrimSpace(n.FirstChild.Data)
			return false
		}
		return true
	})
	return title
}

func findMetaContent(doc *html.Node, property string) string {
	var content string
	walk(doc, func(n *html.Node) bool {
		if n.Type != html.ElementNode || n.Data != "meta" {
			return true
		}
		var prop, val string
		for _, attr := range n.Attr {
			switch attr.Key {
			case "property", "name":
				prop = attr.Val
			case "content":
				val = attr.Val
			}
		}
		if content == "" && prop == property && val != "" {
			content = strings.TrimSpace(val)
			return false
		}
		return true
	})
	return content
}

var skippedContainers = map[string]bool{
	"script": true, "style": true, "noscript": true,
	"nav": true, "header": true, "footer": true, "aside": true, "form": true,
}

func extractText(doc *html.Node) string {
	var paragraphs []string
	walk(doc, func(n *html.Node) bool {
		if n.Type == html.ElementNode && skippedContainers[n.Data] {
			return false
		}
		if n.Type == html.ElementNode && isProseTag(n.Data) {
			if text := collapseWhitespace(textContent(n)); text != "" {
				paragraphs = append(paragraphs, text)
			}
			return false
		}
		return true
	})
	return strings.Join(paragraphs, "\n\n")
}

func isProseTag(tag string) bool {
	switch tag {
	case "p", "h1", "h2", "h3", "li", "blockquote":
		return true
	}
	return false
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	walk(n, func(c *html.Node) bool {
		if c.Type == html.ElementNode && skippedContainers[c.Data] {
			return false
		}
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
		return true
	})
	return sb.String()
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// walk runs fn over the tree depth first. Returning false prunes the
// node's subtree.
func walk(n *html.Node, fn func(*html.Node) bool) {
	if !fn(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}
