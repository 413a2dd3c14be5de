// Package cache provides an explicit get/put/invalidate cache for public
// listing pages. The TTL only bounds staleness for entries nobody
// invalidates; every mutation of an owner's visible set must call
// Invalidate directly.
package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"mydiary/internal/server/models"
)

// Listing is a cached first page of an owner's public notes.
type Listing struct {
	Notes      []*models.Note
	NextCursor string
}

// ListingCache caches the first public page per owner handle.
type ListingCache struct {
	lru *expirable.LRU[string, *Listing]
}

// NewListingCache builds a cache holding up to size owners with the given TTL.
func NewListingCache(size int, ttl time.Duration) *ListingCache {
	return &ListingCache{lru: expirable.NewLRU[string, *Listing](size, nil, ttl)}
}

func (c *ListingCache) Get(handle string) (*Listing, bool) {
	return c.lru.Get(handle)
}

func (c *ListingCache) Put(handle string, l *Listing) {
	c.lru.Add(handle, l)
}

func (c *ListingCache) Invalidate(handle string) {
	c.lru.Remove(handle)
}
