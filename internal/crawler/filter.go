package crawler

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	whatwgUrl "github.com/nlnwa/whatwg-url/url"
)

// ErrUnresolvable is returned when an href cannot be turned into an absolute URL
var ErrUnresolvable = errors.New("unresolvable link")

// urlParser applies the WHATWG URL rules browsers use. Stray '%' signs are
// encoded rather than rejected, as colly does for its own requests.
var urlParser = whatwgUrl.NewParser(whatwgUrl.WithPercentEncodeSinglePercentSign())

// ExtractDomain extracts the lower-cased hostname from an absolute URL string
func ExtractDomain(urlStr string) (string, error) {
	parsed, err := urlParser.Parse(urlStr)
	if err != nil {
		return "", err
	}
	// IPv6 literals keep their brackets in WHATWG form
	return strings.Trim(parsed.Hostname(), "[]"), nil
}

// DomainRoot reduces a URL to the root of its domain: path "/", no query,
// no fragment. Scheme, credentials and non-default ports are kept.
func DomainRoot(u *url.URL) *url.URL {
	root, err := urlParser.ParseRef(u.String(), "/")
	if err == nil {
		if parsed, err := url.Parse(root.Href(true)); err == nil {
			return parsed
		}
	}

	// Rejected by the WHATWG parser, reduce field by field
	return &url.URL{
		Scheme: strings.ToLower(u.Scheme),
		User:   u.User,
		Host:   strings.ToLower(u.Host),
		Path:   "/",
	}
}

// ResolveLink resolves href against base and serializes the result in
// WHATWG form: tabs and newlines stripped, backslashes read as slashes in
// http(s) URLs, hosts lower-cased, default ports and empty paths normalized.
func ResolveLink(base *url.URL, href string) (string, error) {
	resolved, err := urlParser.ParseRef(base.String(), href)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrUnresolvable, href, err)
	}

	if resolved.IsSpecialScheme() && resolved.Scheme() != "file" && resolved.Hostname() == "" {
		return "", fmt.Errorf("%w: %q has no host", ErrUnresolvable, href)
	}

	return resolved.Href(false), nil
}
