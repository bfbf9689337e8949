// Package clock provides a harness utility for driving a sequence of
// ticks against the matching engines and a QuoteSource. It is not
// imported by either engine package: the engines take `now` as a plain
// int64 argument and have no notion of a clock of their own.
package clock

import "fmt"

// Clock walks a fixed, monotone sequence of timestamps. It is built once
// with the full sequence and then stepped forward one tick at a time.
type Clock struct {
	dates []int64
	pos   int
}

// New builds a Clock over an explicit, already-sorted sequence of
// timestamps. The sequence must be non-empty.
func New(dates []int64) *Clock {
	if len(dates) == 0 {
		panic("clock: dates must be non-empty")
	}
	cp := make([]int64, len(dates))
	copy(cp, dates)
	return &Clock{dates: cp}
}

// Daily builds a Clock over `days` consecutive day-spaced timestamps
// (86400 seconds apart) starting at startUnix.
func Daily(startUnix int64, days int) *Clock {
	return fromStep(startUnix, 86400, days)
}

// EverySecond builds a Clock over `seconds` consecutive one-second-spaced
// timestamps starting at startUnix.
func EverySecond(startUnix int64, seconds int) *Clock {
	return fromStep(startUnix, 1, seconds)
}

// FromLengthSeconds builds a Clock running for `length` seconds beyond
// start, inclusive of both endpoints (length+1 timestamps).
func FromLengthSeconds(startUnix int64, length int) *Clock {
	return fromStep(startUnix, 1, length+1)
}

func fromStep(start, step int64, count int) *Clock {
	if count <= 0 {
		panic("clock: count must be positive")
	}
	dates := make([]int64, count)
	for i := 0; i < count; i++ {
		dates[i] = start + int64(i)*step
	}
	return &Clock{dates: dates}
}

// Now returns the current timestamp.
func (c *Clock) Now() int64 {
	return c.dates[c.pos]
}

// HasNext reports whether Tick can be called again without panicking.
func (c *Clock) HasNext() bool {
	return c.pos < len(c.dates)-1
}

// Tick advances to the next timestamp and returns it. It panics if the
// clock has already reached the end of its sequence — callers must
// check HasNext first, exactly like the original simulation clock.
func (c *Clock) Tick() int64 {
	if !c.HasNext() {
		panic(fmt.Sprintf("clock: tick past end of sequence at pos %d", c.pos))
	}
	c.pos++
	return c.dates[c.pos]
}

// Peek returns the full timestamp sequence without mutating position.
func (c *Clock) Peek() []int64 {
	cp := make([]int64, len(c.dates))
	copy(cp, c.dates)
	return cp
}
