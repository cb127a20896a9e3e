package service

import (
	"strings"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/gayatrijangid/panchakarma-booking-system/pkg/metrics"
)

// availabilityCache memoizes computed availability views. Entries are keyed
// by date plus doctor filter and dropped wholesale for a date whenever any
// booking on that date mutates, so a cached view can never show a slot as
// free after a booking landed.
type availabilityCache struct {
	entries   *lru.Cache[string, Availability]
	collector *metrics.Collector
}

func newAvailabilityCache(size int, collector *metrics.Collector) (*availabilityCache, error) {
	if size <= 0 {
		size = 128
	}
	entries, err := lru.New[string, Availability](size)
	if err != nil {
		return nil, err
	}
	return &availabilityCache{entries: entries, collector: collector}, nil
}

func cacheKey(date string, doctorID *uuid.UUID) string {
	if doctorID == nil {
		return date + "|any"
	}
	return date + "|" + doctorID.String()
}

func (c *availabilityCache) get(date string, doctorID *uuid.UUID) (*Availability, bool) {
	av, ok := c.entries.Get(cacheKey(date, doctorID))
	if !ok {
		if c.collector != nil {
			c.collector.AvailabilityCacheMisses.Inc()
		}
		return nil, false
	}
	if c.collector != nil {
		c.collector.AvailabilityCacheHits.Inc()
	}
	return &av, true
}

func (c *availabilityCache) add(date string, doctorID *uuid.UUID, av *Availability) {
	c.entries.Add(cacheKey(date, doctorID), *av)
}

// invalidateDate drops every cached view for a date, all doctor filters
// included: an unassigned booking changes the clinic-wide view, a pinned one
// changes both the clinic-wide and the doctor's view.
func (c *availabilityCache) invalidateDate(date string) {
	prefix := date + "|"
	for _, key := range c.entries.Keys() {
		if strings.HasPrefix(key, prefix) {
			c.entries.Remove(key)
		}
	}
}
