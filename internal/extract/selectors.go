package extract

// Default selector values for the listing site markup.
const (
	// DefaultEndMarker matches the heading shown on the page past the last
	// listing page ("Nothing found").
	DefaultEndMarker = "h1.page-title"

	// DefaultItem matches one listing item container.
	DefaultItem = "article"

	// DefaultTitle matches the item title inside a container.
	DefaultTitle = ".entry-title"

	// DefaultTags matches the category and tag links inside a container.
	DefaultTags = ".cat-links a, .tags-links a, a[rel~=tag]"

	// DefaultLink matches the candidate download links inside a container.
	DefaultLink = "a"
)

// Selectors holds the CSS selectors the Extractor compiles.
type Selectors struct {
	// EndMarker is present only on the page past the end of the listing.
	EndMarker string `yaml:"end_marker,omitempty"`

	// Item matches each listing item container.
	Item string `yaml:"item,omitempty"`

	// Title is evaluated inside an item; the first match is the title.
	Title string `yaml:"title,omitempty"`

	// Tags is evaluated inside an item; all matches are tag text.
	Tags string `yaml:"tags,omitempty"`

	// Link is evaluated inside an item; matches are download link candidates.
	Link string `yaml:"link,omitempty"`
}

// DefaultSelectors returns the selectors for the default listing site.
func DefaultSelectors() Selectors {
	return Selectors{
		EndMarker: DefaultEndMarker,
		Item:      DefaultItem,
		Title:     DefaultTitle,
		Tags:      DefaultTags,
		Link:      DefaultLink,
	}
}

// Merge returns s with every non-empty field of override applied.
func (s Selectors) Merge(override Selectors) Selectors {
	if override.EndMarker != "" {
		s.EndMarker = override.EndMarker
	}
	if override.Item != "" {
		s.Item = override.Item
	}
	if override.Title != "" {
		s.Title = override.Title
	}
	if override.Tags != "" {
		s.Tags = override.Tags
	}
	if override.Link != "" {
		s.Link = override.Link
	}
	return s
}
