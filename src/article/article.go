// Package article loads documents used as context for file questions.
package article

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	convofs "github.com/elee1766/convo/src/fs"
	"github.com/spf13/afero"
)

// DefaultMaxBytes is the default size limit for a loaded document.
const DefaultMaxBytes = 5 * 1024 * 1024 // 5MB

var (
	// ErrUnsupportedFormat is returned for files that are not text, markdown or html
	ErrUnsupportedFormat = errors.New("unsupported article format")

	// ErrEmpty is returned when a document has no text
	ErrEmpty = errors.New("article is empty")
)

// Article is a loaded document.
type Article struct {
	Source  string
	Title   string
	Content string
	Format  string
}

// Loader reads articles from a filesystem or over HTTP.
type Loader struct {
	fs       afero.Fs
	client   *http.Client
	maxBytes int64
}

// NewLoader returns a Loader reading files from fsys. maxBytes <= 0 uses
// DefaultMaxBytes.
func NewLoader(fsys afero.Fs, maxBytes int64) *Loader {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Loader{
		fs:       fsys,
		maxBytes: maxBytes,
		client: &http.Client{
			Timeout: 30 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
	}
}

// Load reads source, which is either a file path or an http(s) URL.
func (l *Loader) Load(ctx context.Context, source string) (*Article, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return l.fetch(ctx, source)
	}
	return l.loadFile(source)
}

func (l *Loader) loadFile(name string) (*Article, error) {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".txt", ".md", ".markdown", ".html", ".htm":
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	data, err := convofs.ReadFileLimit(l.fs, name, l.maxBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	if ext == ".html" || ext == ".htm" {
		return fromHTML(name, string(data))
	}

	format := "text"
	if ext != ".txt" {
		format = "markdown"
	}
	return finish(&Article{
		Source:  name,
		Title:   filepath.Base(name),
		Content: string(data),
		Format:  format,
	})
}

func (l *Loader) fetch(ctx context.Context, url string) (*Article, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "convo/1.0")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9,*/*;q=0.8")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("request failed with status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, l.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) > l.maxBytes {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", convofs.ErrTooLarge, url, l.maxBytes)
	}

	contentType := resp.Header.Get("Content-Type")
	switch {
	case strings.Contains(contentType, "text/html"), strings.Contains(contentType, "application/xhtml"):
		return fromHTML(url, string(body))
	case strings.HasPrefix(contentType, "text/"):
		return finish(&Article{Source: url, Title: url, Content: string(body), Format: "text"})
	default:
		return nil, fmt.Errorf("%w: content type %q", ErrUnsupportedFormat, contentType)
	}
}

// fromHTML extracts the title and main content of an HTML document and
// converts the content to markdown.
func fromHTML(source, html string) (*Article, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("script, style, nav, header, footer, noscript").Remove()

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("h1").First().Text())
	}

	main := doc.Find("main, article, [role=main]").First()
	if main.Length() == 0 {
		main = doc.Find("body")
	}
	if main.Length() == 0 {
		main = doc.Selection
	}

	return finish(&Article{
		Source:  source,
		Title:   title,
		Content: convertHTMLToMarkdown(main),
		Format:  "markdown",
	})
}

// convertHTMLToMarkdown converts a selection to Markdown
func convertHTMLToMarkdown(sel *goquery.Selection) string {
	converter := md.NewConverter("", true, nil)
	markdown := converter.Convert(sel)

	markdown = strings.TrimSpace(markdown)
	for strings.Contains(markdown, "\n\n\n") {
		markdown = strings.ReplaceAll(markdown, "\n\n\n", "\n\n")
	}
	return markdown
}

func finish(a *Article) (*Article, error) {
	a.Content = strings.TrimSpace(a.Content)
	if a.Content == "" {
		return nil, fmt.Errorf("%w: %s", ErrEmpty, a.Source)
	}
	if a.Title == "" {
		a.Title = a.Source
	}
	return a, nil
}
