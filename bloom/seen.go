// Package bloom provides URL deduplication for crawl pipelines.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// SeenSet tracks URLs that have already been discovered. A Bloom filter
// answers the common not-seen case without touching the exact set; the exact
// set resolves filter false positives so URLs are never dropped incorrectly.
type SeenSet struct {
	filter *bloom.BloomFilter
	exact  map[string]struct{}
}

// NewSeenSet creates a SeenSet sized for n expected URLs with the given
// Bloom filter false positive rate.
func NewSeenSet(n uint, fpRate float64) *SeenSet {
	return &SeenSet{
		filter: bloom.NewWithEstimates(n, fpRate),
		exact:  make(map[string]struct{}),
	}
}

// Add records a URL. Returns false if the URL was already present.
func (s *SeenSet) Add(url string) bool {
	if s.Contains(url) {
		return false
	}
	s.filter.AddString(url)
	s.exact[url] = struct{}{}
	return true
}

// Contains returns true if the URL has been recorded.
func (s *SeenSet) Contains(url string) bool {
	if !s.filter.TestString(url) {
		return false
	}
	_, ok := s.exact[url]
	return ok
}

// Len returns the number of recorded URLs.
func (s *SeenSet) Len() int {
	return len(s.exact)
}
