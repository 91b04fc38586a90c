// Package main provides the entry point for the Link Weaver CLI.
//
// Link Weaver crawls a web site breadth first, staying on the site's host,
// and indexes every link it sees by domain.
//
// Usage:
//
//	linkweaver serve
//	linkweaver crawl https://example.com
//
// See --help for all available options.
package main

func main() {
	Execute()
}
