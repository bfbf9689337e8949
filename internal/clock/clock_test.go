package clock

import "testing"

func TestDailyAdvancesAndStops(t *testing.T) {
	c := Daily(0, 3)
	if c.Now() != 0 {
		t.Fatalf("expected 0, got %d", c.Now())
	}
	if !c.HasNext() {
		t.Fatal("expected HasNext true")
	}
	if got := c.Tick(); got != 86400 {
		t.Fatalf("expected 86400, got %d", got)
	}
	if got := c.Tick(); got != 172800 {
		t.Fatalf("expected 172800, got %d", got)
	}
	if c.HasNext() {
		t.Fatal("expected HasNext false at end of sequence")
	}
}

func TestTickPastEndPanics(t *testing.T) {
	c := Daily(0, 1)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic ticking past end of sequence")
		}
	}()
	c.Tick()
}

func TestPeekDoesNotMutatePosition(t *testing.T) {
	c := EverySecond(10, 5)
	dates := c.Peek()
	if len(dates) != 5 {
		t.Fatalf("expected 5 dates, got %d", len(dates))
	}
	if c.Now() != 10 {
		t.Fatalf("peek mutated position: now=%d", c.Now())
	}
}

func TestFromLengthSecondsInclusiveOfBothEnds(t *testing.T) {
	c := FromLengthSeconds(0, 10)
	dates := c.Peek()
	if len(dates) != 11 {
		t.Fatalf("expected 11 dates (length+1), got %d", len(dates))
	}
	if dates[len(dates)-1] != 10 {
		t.Fatalf("expected last date 10, got %d", dates[len(dates)-1])
	}
}
