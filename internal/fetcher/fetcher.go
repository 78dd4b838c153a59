package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrStatus is returned when the server answers with anything but 200.
var ErrStatus = errors.New("unexpected status code")

// Page holds the searchable text extracted from one group page
type Page struct {
	URL        string
	Title      string   // h1.title, else the first h1
	HasTitle   bool     // the page has an h1, even an empty one
	Tables     []string // text of every table
	Blocks     []string // text of every p and li
	StatusCode int
}

// Chunks returns the title followed by the body fragments, in the order the
// index expects them. fallbackTitle is used when the page has no h1.
func (p *Page) Chunks(fallbackTitle string) []string {
	title := p.Title
	if !p.HasTitle {
		title = fallbackTitle
	}
	chunks := make([]string, 0, 1+len(p.Tables)+len(p.Blocks))
	chunks = append(chunks, title)
	chunks = append(chunks, p.Tables...)
	return append(chunks, p.Blocks...)
}

type Fetcher struct {
	client       *http.Client
	baseURL      *url.URL
	userAgent    string
	maxBodyBytes int64
}

// Options tweak a Fetcher beyond its base URL and timeout.
type Options struct {
	UserAgent    string
	MaxBodyBytes int64
}

func NewFetcher(baseURL string, timeout time.Duration, opts Options) (*Fetcher, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid base url %q: only HTTP/HTTPS is supported", baseURL)
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "CuadroSearch/1.0"
	}
	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		baseURL:      base,
		userAgent:    opts.UserAgent,
		maxBodyBytes: opts.MaxBodyBytes,
	}, nil
}

// Resolve turns a page reference into an absolute URL.
func (f *Fetcher) Resolve(ref string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return "", fmt.Errorf("invalid page reference %q: %w", ref, err)
	}
	return f.baseURL.ResolveReference(u).String(), nil
}

// Fetch downloads and parses the page at ref, relative to the base URL
func (f *Fetcher) Fetch(ctx context.Context, ref string) (*Page, error) {
	target, err := f.Resolve(ref)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("network error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d for %s", ErrStatus, resp.StatusCode, target)
	}

	var body io.Reader = resp.Body
	if f.maxBodyBytes > 0 {
		body = io.LimitReader(resp.Body, f.maxBodyBytes)
	}

	page, err := Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parsing error: %w", err)
	}
	page.URL = target
	page.StatusCode = resp.StatusCode
	return page, nil
}

// Parse extracts the title, the tables and the p/li blocks of an HTML page
func Parse(r io.Reader) (*Page, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	page := &Page{
		Tables: make([]string, 0),
		Blocks: make([]string, 0),
	}

	var firstH1, titleH1 *html.Node
	walk(doc, func(n *html.Node) {
		switch n.DataAtom {
		case atom.H1:
			if firstH1 == nil {
				firstH1 = n
			}
			if titleH1 == nil && hasClass(n, "title") {
				titleH1 = n
			}
		case atom.Table:
			page.Tables = append(page.Tables, innerText(n))
		case atom.P, atom.Li:
			page.Blocks = append(page.Blocks, innerText(n))
		}
	})

	switch {
	case titleH1 != nil:
		page.Title = innerText(titleH1)
	case firstH1 != nil:
		page.Title = innerText(firstH1)
	}
	page.HasTitle = firstH1 != nil
	return page, nil
}

// walk visits every element node in document order.
func walk(n *html.Node, visit func(*html.Node)) {
	if n.Type == html.ElementNode {
		visit(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

func hasClass(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(attr.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

// innerText approximates the rendered text of n: script and style are
// skipped, rows and blocks end with a newline and cells with a tab, so
// adjacent cells never fuse into one word.
func innerText(n *html.Node) string {
	var b strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
			return
		case html.ElementNode:
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Noscript, atom.Template:
				return
			case atom.Br:
				b.WriteByte('\n')
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Td, atom.Th:
				b.WriteByte('\t')
			case atom.Tr, atom.P, atom.Li, atom.Div, atom.Caption,
				atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
				b.WriteByte('\n')
			}
		}
	}
	collect(n)
	return strings.TrimSpace(b.String())
}
