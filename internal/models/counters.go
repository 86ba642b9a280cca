package models

import (
	"sync"
	"time"
)

// DateLayout is the UTC calendar-day key used for counter partitions
// and day directories.
const DateLayout = "2006-01-02"

type Category string

const (
	CategoryGroup   Category = "group"
	CategoryPrivate Category = "private"
	CategoryUnknown Category = "unknown"
)

func DateKey(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// CounterSnapshot is a detached read-only copy of one day's counters.
type CounterSnapshot struct {
	Date       string
	ByCategory map[Category]int
	ByChannel  map[int64]int
}

// SendTotals carries the post-increment counts of a single recorded send.
// Channel is zero for categories without a channel counter.
type SendTotals struct {
	Total   int
	Channel int
}

// DailyCounters is the aggregate for one UTC calendar day. The group
// category total always equals the sum of the channel counts after a
// completed increment.
type DailyCounters struct {
	mu         sync.RWMutex
	date       string
	byCategory map[Category]int
	byChannel  map[int64]int
}

func NewDailyCounters(date string) *DailyCounters {
	return &DailyCounters{
		date:       date,
		byCategory: make(map[Category]int),
		byChannel:  make(map[int64]int),
	}
}

func (c *DailyCounters) Date() string {
	return c.date
}

// Inc adds one send to the category counter and, when withChannel is
// set, to the channel counter. It returns the post-increment totals.
func (c *DailyCounters) Inc(category Category, channel int64, withChannel bool) SendTotals {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.byCategory[category]++
	totals := SendTotals{Total: c.byCategory[category]}
	if withChannel {
		c.byChannel[channel]++
		totals.Channel = c.byChannel[channel]
	}
	return totals
}

// Seed replaces the counter maps with recovered state. Nil maps leave
// the corresponding counters empty.
func (c *DailyCounters) Seed(byCategory map[Category]int, byChannel map[int64]int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.byCategory = make(map[Category]int, len(byCategory))
	for k, v := range byCategory {
		c.byCategory[k] = v
	}
	c.byChannel = make(map[int64]int, len(byChannel))
	for k, v := range byChannel {
		c.byChannel[k] = v
	}
}

func (c *DailyCounters) Snapshot() CounterSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snap := CounterSnapshot{
		Date:       c.date,
		ByCategory: make(map[Category]int, len(c.byCategory)),
		ByChannel:  make(map[int64]int, len(c.byChannel)),
	}
	for k, v := range c.byCategory {
		snap.ByCategory[k] = v
	}
	for k, v := range c.byChannel {
		snap.ByChannel[k] = v
	}
	return snap
}

// ChannelCount is one row of the per-channel table, used by the stats
// query surface.
type ChannelCount struct {
	ID    int64 `json:"id"`
	Count int   `json:"count"`
}
