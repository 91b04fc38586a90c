package crawler

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestDomainRoot(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "http://example.com", want: "http://example.com/"},
		{in: "https://Example.COM/docs/page?x=1#top", want: "https://example.com/"},
		{in: "http://example.com:8080/a/b", want: "http://example.com:8080/"},
		{in: "https://user@example.com/private", want: "https://user@example.com/"},
		{in: "http://example.com:80/x", want: "http://example.com/"},
		{in: "https://example.com:443/", want: "https://example.com/"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, DomainRoot(mustParse(t, tt.in)).String())
		})
	}
}

func TestResolveLink(t *testing.T) {
	base := mustParse(t, "http://example.com/")

	tests := []struct {
		name string
		href string
		want string
	}{
		{name: "root", href: "/", want: "http://example.com/"},
		{name: "absolute path", href: "/about", want: "http://example.com/about"},
		{name: "relative path", href: "contact", want: "http://example.com/contact"},
		{name: "external without path", href: "https://external.com", want: "https://external.com/"},
		{name: "upper case host", href: "https://EXTERNAL.com/x", want: "https://external.com/x"},
		{name: "protocol relative", href: "//cdn.example.net/lib.js", want: "http://cdn.example.net/lib.js"},
		{name: "dot segments", href: "/a/../b", want: "http://example.com/b"},
		{name: "query kept", href: "/search?q=go", want: "http://example.com/search?q=go"},
		{name: "fragment kept", href: "#top", want: "http://example.com/#top"},
		{name: "surrounding whitespace", href: "  /about\n", want: "http://example.com/about"},
		{name: "mailto", href: "mailto:team@example.com", want: "mailto:team@example.com"},
		{name: "embedded newline", href: "/ab\nout", want: "http://example.com/about"},
		{name: "embedded tab", href: "/a\tb", want: "http://example.com/ab"},
		{name: "scheme relative to base", href: "http:foo", want: "http://example.com/foo"},
		{name: "backslash path", href: "\\about", want: "http://example.com/about"},
		{name: "space in query", href: "/q?x=a b", want: "http://example.com/q?x=a%20b"},
		{name: "default port dropped", href: "http://example.com:80/x", want: "http://example.com/x"},
		{name: "triple slash authority", href: "https:///path", want: "https://path/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveLink(base, tt.href)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveLinkRejectsMalformed(t *testing.T) {
	base := mustParse(t, "http://example.com/")

	for _, href := range []string{"http://[::1", "http://", "http://exa mple.com/"} {
		t.Run(href, func(t *testing.T) {
			_, err := ResolveLink(base, href)
			assert.ErrorIs(t, err, ErrUnresolvable)
		})
	}
}

func TestExtractDomain(t *testing.T) {
	domain, err := ExtractDomain("https://Blog.Example.com:8443/post")
	require.NoError(t, err)
	assert.Equal(t, "blog.example.com", domain)

	domain, err = ExtractDomain("http://[::1]:8080/")
	require.NoError(t, err)
	assert.Equal(t, "::1", domain)

	domain, err = ExtractDomain("mailto:someone@example.com")
	require.NoError(t, err)
	assert.Equal(t, "", domain)
}
