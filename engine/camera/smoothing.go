package camera

import "gonum.org/v1/gonum/spatial/r3"

// deltaSmoother averages the most recent input deltas of a gesture.
type deltaSmoother struct {
	samples []r3.Vec
	next    int
	filled  int
}

func newDeltaSmoother(window int) *deltaSmoother {
	return &deltaSmoother{samples: make([]r3.Vec, max(window, 1))}
}

func (s *deltaSmoother) reset() {
	s.next = 0
	s.filled = 0
}

// push records v and returns the mean of the recorded samples.
func (s *deltaSmoother) push(v r3.Vec) r3.Vec {
	if len(s.samples) == 1 {
		return v
	}
	s.samples[s.next] = v
	s.next = (s.next + 1) % len(s.samples)
	s.filled = min(s.filled+1, len(s.samples))

	var sum r3.Vec
	for i := range s.filled {
		sum = r3.Add(sum, s.samples[i])
	}
	return r3.Scale(1/float64(s.filled), sum)
}
