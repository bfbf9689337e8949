package depth

import "sort"

// staging buffers client orders between ticks. insert_order never has a
// side effect on the resting book; orders only become eligible once
// admitted during the next tick's admission phase, after that tick's
// matching pass has already run. This ordering is the entire
// lookahead-bias defense: an order submitted while observing tick t's
// data cannot itself be matched against tick t's data.
type staging struct {
	buffer []Order
}

func (s *staging) push(order Order) {
	s.buffer = append(s.buffer, order)
}

// drain sorts the buffer so sells precede non-sells (stable otherwise,
// a deterministic tie-break with no documented rationale beyond
// reproducible id assignment when multiple orders land in the same
// tick) and empties it for the caller to admit.
func (s *staging) drain() []Order {
	buffered := s.buffer
	s.buffer = nil

	sort.SliceStable(buffered, func(i, j int) bool {
		return isSellLike(buffered[i].Type) && !isSellLike(buffered[j].Type)
	})
	return buffered
}

func isSellLike(t OrderType) bool {
	return t == LimitSell || t == MarketSell
}
