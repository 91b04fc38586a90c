package api

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
)

var (
	// ErrInvalidURL is returned when the crawl URL does not parse
	ErrInvalidURL = errors.New("invalid url")
	// ErrUnsupportedScheme is returned for anything but http and https
	ErrUnsupportedScheme = errors.New("url scheme must be http or https")
	// ErrNoDomainHost is returned when the host is missing or an IP literal
	ErrNoDomainHost = errors.New("url host must be a domain name")
	// ErrLocalhost is returned for localhost
	ErrLocalhost = errors.New("localhost cannot be crawled")
)

// ValidateBaseURL parses a crawl request URL and checks that it names a
// crawlable domain
func ValidateBaseURL(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}

	host := strings.ToLower(u.Hostname())
	if host == "" || net.ParseIP(host) != nil {
		return nil, fmt.Errorf("%w: %q", ErrNoDomainHost, u.Host)
	}
	if host == "localhost" {
		return nil, ErrLocalhost
	}

	return u, nil
}
