package crawler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractLinksResolvesInDocumentOrder(t *testing.T) {
	body := `<html><body>
		<a href="/">Home</a>
		<a href="/about">About</a>
		<a href="https://external.com">Elsewhere</a>
	</body></html>`

	links := ExtractLinks(mustParse(t, "http://example.com"), body)

	assert.Equal(t, []string{
		"http://example.com/",
		"http://example.com/about",
		"https://external.com/",
	}, links)
}

func TestExtractLinksKeepsDuplicates(t *testing.T) {
	body := `<a href="/a">1</a><p><a href="/b">2</a></p><a href="/a">3</a>`

	links := ExtractLinks(mustParse(t, "http://example.com/"), body)

	assert.Equal(t, []string{
		"http://example.com/a",
		"http://example.com/b",
		"http://example.com/a",
	}, links)
}

func TestExtractLinksSkipsAnchorsWithoutHref(t *testing.T) {
	body := `<a name="top">anchor</a><a href="">self</a><a id="x">none</a><link href="/style.css">`

	links := ExtractLinks(mustParse(t, "http://example.com/"), body)

	assert.Equal(t, []string{"http://example.com/"}, links)
}

func TestExtractLinksDropsUnresolvable(t *testing.T) {
	body := `<a href="http://[::1">bad</a><a href="/ok">ok</a><a href="http://">empty</a>`

	links := ExtractLinks(mustParse(t, "http://example.com/"), body)

	assert.Equal(t, []string{"http://example.com/ok"}, links)
}

func TestExtractLinksNoAnchors(t *testing.T) {
	assert.Empty(t, ExtractLinks(mustParse(t, "http://example.com/"), "plain text, not markup"))
	assert.Empty(t, ExtractLinks(mustParse(t, "http://example.com/"), ""))
}

func TestExtractLinksNormalizesMessyHrefs(t *testing.T) {
	body := "<a href=\"/ab\nout\">1</a><a href=\"\\team\">2</a><a href=\"http://EXAMPLE.com:80/q?x=a b\">3</a>"

	links := ExtractLinks(mustParse(t, "http://example.com/"), body)

	assert.Equal(t, []string{
		"http://example.com/about",
		"http://example.com/team",
		"http://example.com/q?x=a%20b",
	}, links)
}
