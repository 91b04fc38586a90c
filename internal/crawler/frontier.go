package crawler

// Frontier is the BFS queue of one crawl job together with its visited set.
// It belongs to a single job goroutine and is not safe for concurrent use.
type Frontier struct {
	items   []string
	visited map[string]struct{}
}

// NewFrontier creates a frontier seeded with a single URL
func NewFrontier(seed string) *Frontier {
	return &Frontier{
		items:   []string{seed},
		visited: make(map[string]struct{}),
	}
}

// Push appends a URL to the back of the queue. Duplicates are accepted
// here and collapsed by Next.
func (f *Frontier) Push(u string) {
	f.items = append(f.items, u)
}

// Next pops URLs from the front of the queue until it finds one that has
// not been visited, marks it visited and returns it.
// Returns ("", false) once the queue is empty.
func (f *Frontier) Next() (string, bool) {
	for len(f.items) > 0 {
		u := f.items[0]
		f.items[0] = ""
		f.items = f.items[1:]

		if _, seen := f.visited[u]; seen {
			continue
		}
		f.visited[u] = struct{}{}
		return u, true
	}
	return "", false
}

// Visited reports whether u has already been dequeued
func (f *Frontier) Visited(u string) bool {
	_, seen := f.visited[u]
	return seen
}

// Size returns the number of queued entries, duplicates included
func (f *Frontier) Size() int {
	return len(f.items)
}

// VisitedCount returns the number of distinct URLs dequeued so far
func (f *Frontier) VisitedCount() int {
	return len(f.visited)
}
