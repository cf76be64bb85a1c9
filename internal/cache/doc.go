// Package cache provides a byte-bounded LRU used by the caching blob
// store. Whole container blobs are cached by name; eviction is by
// total payload size rather than entry count.
package cache
