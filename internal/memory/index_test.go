package memory

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/alvmarrod/link-weaver/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexRecordAndGet(t *testing.T) {
	ix := NewIndex()

	_, ok := ix.Get("example.com")
	assert.False(t, ok)

	ix.Record("example.com", "http://example.com/about")
	ix.Record("example.com", "https://external.com/")

	record, ok := ix.Get("example.com")
	require.True(t, ok)
	assert.Equal(t, "example.com", record.Domain)
	assert.Equal(t, 2, record.Count)
	assert.Equal(t, []string{"http://example.com/about", "https://external.com/"}, record.URLs)

	// external links are stored under the crawled host only
	_, ok = ix.Get("external.com")
	assert.False(t, ok)
}

func TestIndexRecordIsIdempotent(t *testing.T) {
	ix := NewIndex()

	ix.Record("example.com", "http://example.com/")
	before, _ := ix.Get("example.com")

	ix.Record("example.com", "http://example.com/")
	after, _ := ix.Get("example.com")

	assert.Equal(t, before, after)
	assert.Equal(t, 1, after.Count)
}

func TestIndexRecordsOnlyGrow(t *testing.T) {
	ix := NewIndex()
	seen := map[string]bool{}

	for i := 0; i < 50; i++ {
		ix.Record("example.com", fmt.Sprintf("http://example.com/%d", i%20))

		record, ok := ix.Get("example.com")
		require.True(t, ok)
		for link := range seen {
			assert.Contains(t, record.URLs, link)
		}
		for _, link := range record.URLs {
			seen[link] = true
		}
	}

	record, _ := ix.Get("example.com")
	assert.Equal(t, 20, record.Count)
}

func TestIndexSnapshotIsDetached(t *testing.T) {
	ix := NewIndex()
	ix.Record("example.com", "http://example.com/")

	record, _ := ix.Get("example.com")
	record.URLs[0] = "mutated"

	again, _ := ix.Get("example.com")
	assert.Equal(t, []string{"http://example.com/"}, again.URLs)
}

func TestIndexConcurrentWritersConverge(t *testing.T) {
	ix := NewIndex()
	const writers = 8
	const perWriter = 200

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				ix.Record("example.com", fmt.Sprintf("http://example.com/w%d/%d", w, i))
				ix.Record(fmt.Sprintf("host%d.example", w), "http://example.com/")
				_ = ix.ListDomains()
				_, _ = ix.Get("example.com")
			}
		}(w)
	}
	wg.Wait()

	record, ok := ix.Get("example.com")
	require.True(t, ok)
	assert.Equal(t, writers*perWriter, record.Count)

	domains, links := ix.GetStats()
	assert.Equal(t, writers+1, domains)
	assert.Equal(t, writers*perWriter+writers, links)
}

func TestIndexListDomains(t *testing.T) {
	ix := NewIndex()
	assert.Empty(t, ix.ListDomains())

	ix.Record("b.example", "http://b.example/")
	ix.Record("a.example", "http://a.example/")
	ix.Record("b.example", "http://b.example/x")

	assert.Equal(t, []string{"a.example", "b.example"}, ix.ListDomains())
}

func TestIndexFlush(t *testing.T) {
	archive, err := storage.OpenArchive(filepath.Join(t.TempDir(), "links.db"))
	require.NoError(t, err)
	defer archive.Close()

	ix := NewIndex()
	ix.Record("example.com", "http://example.com/")
	ix.Record("example.com", "https://external.com/")
	ix.Record("other.example", "http://other.example/")

	require.NoError(t, ix.Flush(archive))

	hosts, err := archive.ListDomains()
	require.NoError(t, err)
	assert.Equal(t, []string{"example.com", "other.example"}, hosts)

	record, err := archive.LoadDomain("example.com")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, []string{"http://example.com/", "https://external.com/"}, record.URLs)

	// a second flush after growth only adds
	ix.Record("example.com", "http://example.com/about")
	require.NoError(t, ix.Flush(archive))

	record, err = archive.LoadDomain("example.com")
	require.NoError(t, err)
	assert.Equal(t, 3, record.Count)
}

func TestIndexConcurrentFlushes(t *testing.T) {
	archive, err := storage.OpenArchive(filepath.Join(t.TempDir(), "links.db"))
	require.NoError(t, err)
	defer archive.Close()

	ix := NewIndex()
	for i := 0; i < 50; i++ {
		ix.Record(fmt.Sprintf("host%d.example", i%5), fmt.Sprintf("http://example.com/%d", i))
	}

	var wg sync.WaitGroup
	errs := make(chan error, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- ix.Flush(archive)
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}

	hosts, err := archive.ListDomains()
	require.NoError(t, err)
	assert.Len(t, hosts, 5)
}
