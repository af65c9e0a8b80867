package paste

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/mr-tron/base58"
)

// Reference is a parsed paste locator.
type Reference struct {
	// Server is the paste server URL without query or fragment.
	Server *url.URL

	// ID is the paste id taken from the query string.
	ID string

	// Key is the decoded fragment key.
	Key []byte
}

// ParseReference splits a paste URL into server, id and key.
func ParseReference(ref string) (*Reference, error) {
	u, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidReference, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: not an absolute http(s) URL", ErrInvalidReference)
	}

	id, _, _ := strings.Cut(u.RawQuery, "&")
	id = strings.TrimSuffix(id, "=")
	if id == "" || strings.Contains(id, "=") {
		return nil, fmt.Errorf("%w: missing paste id", ErrInvalidReference)
	}

	// A leading "-" asks the web client for a confirmation before loading.
	fragment := strings.TrimPrefix(u.Fragment, "-")
	if fragment == "" {
		return nil, fmt.Errorf("%w: missing key", ErrInvalidReference)
	}
	key, err := base58.Decode(fragment)
	if err != nil || len(key) == 0 {
		return nil, fmt.Errorf("%w: key is not base58", ErrInvalidReference)
	}

	server := *u
	server.RawQuery = ""
	server.Fragment = ""
	server.RawFragment = ""

	return &Reference{Server: &server, ID: id, Key: key}, nil
}

// PasteURL returns the URL the paste JSON is requested from.
func (r *Reference) PasteURL() string {
	u := *r.Server
	u.RawQuery = r.ID
	return u.String()
}
