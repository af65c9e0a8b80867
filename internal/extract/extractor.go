package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"github.com/nao1215/fgscrap/internal/model"
)

const (
	// DefaultLinkText is the visible text of the link that points at the
	// torrent-only paste.
	DefaultLinkText = ".torrent file only"

	// DefaultDisallowedHost serves files that are not paste references.
	DefaultDisallowedHost = "sendfile.su"
)

// Result is the outcome of extracting one listing page.
type Result struct {
	// End is true when the page carries the end-of-listing marker.
	// Candidates is always empty in that case.
	End bool

	// Candidates are the filtered items of the page in document order.
	Candidates []model.Candidate

	// Items is the number of item containers seen before filtering.
	Items int
}

// Extractor extracts candidates from listing pages.
//
// Design decision: Selectors are compiled once at construction rather than
// per page. Extract only reads the compiled matchers, so one Extractor is
// shared by every decrypt worker.
type Extractor struct {
	endMarker cascadia.Selector
	item      cascadia.Selector
	title     cascadia.Selector
	tags      cascadia.Selector
	link      cascadia.Selector

	filter          model.Filter
	linkText        string
	disallowedHosts []string
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithFilter sets the adult-content filter. Default is model.FilterNone.
func WithFilter(f model.Filter) Option {
	return func(e *Extractor) {
		e.filter = f
	}
}

// WithLinkText sets the visible link text that marks a download link.
func WithLinkText(text string) Option {
	return func(e *Extractor) {
		e.linkText = text
	}
}

// WithDisallowedHosts replaces the hosts whose links are never candidates.
func WithDisallowedHosts(hosts ...string) Option {
	return func(e *Extractor) {
		e.disallowedHosts = hosts
	}
}

// NewExtractor compiles the selectors and returns an Extractor.
// A selector that does not compile is reported as ErrInvalidSelector.
func NewExtractor(sel Selectors, opts ...Option) (*Extractor, error) {
	e := &Extractor{
		filter:          model.FilterNone,
		linkText:        DefaultLinkText,
		disallowedHosts: []string{DefaultDisallowedHost},
	}

	compiled := []struct {
		name string
		src  string
		dst  *cascadia.Selector
	}{
		{name: "end_marker", src: sel.EndMarker, dst: &e.endMarker},
		{name: "item", src: sel.Item, dst: &e.item},
		{name: "title", src: sel.Title, dst: &e.title},
		{name: "tags", src: sel.Tags, dst: &e.tags},
		{name: "link", src: sel.Link, dst: &e.link},
	}
	for _, c := range compiled {
		s, err := cascadia.Compile(c.src)
		if err != nil {
			return nil, fmt.Errorf("%w: %s %q: %v", ErrInvalidSelector, c.name, c.src, err)
		}
		*c.dst = s
	}

	for _, opt := range opts {
		opt(e)
	}

	return e, nil
}

// Filter returns the configured content filter.
func (e *Extractor) Filter() model.Filter {
	return e.filter
}

// Extract parses one listing page.
//
// If the end-of-listing marker is present the result has End set and no
// candidates. Otherwise every item is read, filtered, and reduced to at most
// one candidate. Titles repeated within the page keep their first item.
// An item with no title element fails the whole page with ErrStructure.
func (e *Extractor) Extract(content string) (*Result, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	if doc.FindMatcher(e.endMarker).Length() > 0 {
		return &Result{End: true}, nil
	}

	result := &Result{Candidates: make([]model.Candidate, 0)}
	seen := make(map[string]bool)

	var structErr error
	doc.FindMatcher(e.item).EachWithBreak(func(i int, item *goquery.Selection) bool {
		result.Items++

		titleSel := item.FindMatcher(e.title).First()
		if titleSel.Length() == 0 {
			structErr = fmt.Errorf("%w: item %d has no title element", ErrStructure, i)
			return false
		}
		title := normalizeText(titleSel.Text())

		texts := []string{title}
		item.FindMatcher(e.tags).Each(func(_ int, tag *goquery.Selection) {
			texts = append(texts, tag.Text())
		})

		if !e.filter.Keep(model.IsAdult(texts...)) {
			return true
		}

		link, ok := e.downloadLink(item)
		if !ok || seen[title] {
			return true
		}
		seen[title] = true

		result.Candidates = append(result.Candidates, model.Candidate{
			Title:          title,
			PasteReference: link,
		})
		return true
	})
	if structErr != nil {
		return nil, structErr
	}

	return result, nil
}

// downloadLink returns the first qualifying link inside an item.
func (e *Extractor) downloadLink(item *goquery.Selection) (string, bool) {
	var href string
	item.FindMatcher(e.link).EachWithBreak(func(_ int, a *goquery.Selection) bool {
		if normalizeText(a.Text()) != e.linkText {
			return true
		}
		target, ok := a.Attr("href")
		target = strings.TrimSpace(target)
		if !ok || target == "" || e.isDisallowed(target) {
			return true
		}
		href = target
		return false
	})
	return href, href != ""
}

// isDisallowed reports whether a link target references a disallowed host.
func (e *Extractor) isDisallowed(target string) bool {
	lower := strings.ToLower(target)
	for _, host := range e.disallowedHosts {
		if host != "" && strings.Contains(lower, strings.ToLower(host)) {
			return true
		}
	}
	return false
}

// normalizeText collapses runs of whitespace and trims the ends.
func normalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
