package crawler

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
)

// ExtractLinks returns the absolute URLs referenced by the anchors of an
// HTML document, in document order. Anchors without an href and hrefs that
// do not resolve against base are dropped. No deduplication happens here.
func ExtractLinks(base *url.URL, body string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		logrus.Debugf("Failed to parse document under %s: %v", base, err)
		return nil
	}

	var links []string
	doc.Find("a").Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok {
			return
		}

		link, err := ResolveLink(base, href)
		if err != nil {
			return
		}
		links = append(links, link)
	})

	return links
}
