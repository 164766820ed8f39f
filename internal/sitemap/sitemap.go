// Package sitemap renders the public sitemap.xml and the default robots.txt
// body. Both are pure functions of the base URL, the static page list and
// the published posts.
package sitemap

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Namespace is the sitemaps.org schema the urlset declares.
const Namespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// Page is one static route of the marketing site.
type Page struct {
	Loc        string `yaml:"loc"`
	ChangeFreq string `yaml:"changefreq"`
	Priority   string `yaml:"priority"`
}

// Entry is the part of a blog post the sitemap needs.
type Entry struct {
	Slug      string
	UpdatedAt time.Time
}

// DefaultPages are the static routes served by the frontend.
var DefaultPages = []Page{
	{Loc: "/", ChangeFreq: "weekly", Priority: "1.0"},
	{Loc: "/about", ChangeFreq: "monthly", Priority: "0.8"},
	{Loc: "/services", ChangeFreq: "weekly", Priority: "0.9"},
	{Loc: "/contact", ChangeFreq: "monthly", Priority: "0.7"},
	{Loc: "/blog", ChangeFreq: "daily", Priority: "0.8"},
}

type urlSet struct {
	XMLName xml.Name `xml:"urlset"`
	XMLNS   string   `xml:"xmlns,attr"`
	URLs    []url    `xml:"url"`
}

type url struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// Generate renders one <url> per page followed by one per post, in the order
// given. Post lastmod is the UTC date of UpdatedAt.
func Generate(baseURL string, pages []Page, posts []Entry) ([]byte, error) {
	base := strings.TrimRight(baseURL, "/")
	set := urlSet{XMLNS: Namespace, URLs: make([]url, 0, len(pages)+len(posts))}
	for _, p := range pages {
		set.URLs = append(set.URLs, url{
			Loc:        base + p.Loc,
			ChangeFreq: p.ChangeFreq,
			Priority:   p.Priority,
		})
	}
	for _, e := range posts {
		set.URLs = append(set.URLs, url{
			Loc:        base + "/blog/" + e.Slug,
			LastMod:    e.UpdatedAt.UTC().Format("2006-01-02"),
			ChangeFreq: "monthly",
			Priority:   "0.6",
		})
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		return nil, fmt.Errorf("sitemap: encode: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// DefaultRobots is served when no robots.txt override is stored.
func DefaultRobots(baseURL string) string {
	base := strings.TrimRight(baseURL, "/")
	return "User-agent: *\n" +
		"Allow: /\n" +
		"Disallow: /admin/\n" +
		"Disallow: /api/\n" +
		"\n" +
		"# Crawl-delay\n" +
		"Crawl-delay: 1\n" +
		"\n" +
		"# Sitemap\n" +
		"Sitemap: " + base + "/sitemap.xml\n"
}

type pagesFile struct {
	Pages []Page `yaml:"pages"`
}

// LoadPages reads a YAML page list of the form
//
//	pages:
//	  - loc: /
//	    changefreq: weekly
//	    priority: "1.0"
//
// An empty path yields DefaultPages.
func LoadPages(path string) ([]Page, error) {
	if path == "" {
		return DefaultPages, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sitemap: read pages: %w", err)
	}
	var f pagesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("sitemap: parse pages: %w", err)
	}
	if len(f.Pages) == 0 {
		return nil, fmt.Errorf("sitemap: %s lists no pages", path)
	}
	for i, p := range f.Pages {
		if !strings.HasPrefix(p.Loc, "/") {
			return nil, fmt.Errorf("sitemap: page %d: loc %q must start with /", i, p.Loc)
		}
	}
	return f.Pages, nil
}
