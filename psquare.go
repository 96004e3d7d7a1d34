package beamrt

// pSquare is a streaming, O(1)-space, O(1)-update estimator for a single
// quantile, the P² algorithm (Jain & Chlamtac 1985). Grounded on the
// teacher's event loop metrics, which uses the same algorithm to report
// latency percentiles without retaining the full sample population.
type pSquare struct {
	p       float64
	n       int
	q       [5]float64 // marker heights
	np      [5]float64 // desired marker positions
	dn      [5]float64 // desired position increments
	pos     [5]int     // actual marker positions
	initBuf [5]float64
	filled  int
}

// newPSquare creates an estimator for the p-th quantile (0 < p < 1).
func newPSquare(p float64) *pSquare {
	return &pSquare{p: p}
}

// observe feeds one sample into the estimator.
func (s *pSquare) observe(x float64) {
	if s.filled < 5 {
		s.initBuf[s.filled] = x
		s.filled++
		if s.filled == 5 {
			s.bootstrap()
		}
		return
	}
	s.n++

	k := s.findCell(x)
	for i := k + 1; i < 5; i++ {
		s.pos[i]++
	}
	for i := 0; i < 5; i++ {
		s.np[i] += s.dn[i]
	}

	for i := 1; i < 4; i++ {
		d := s.np[i] - float64(s.pos[i])
		if (d >= 1 && s.pos[i+1]-s.pos[i] > 1) || (d <= -1 && s.pos[i-1]-s.pos[i] < -1) {
			sign := 1.0
			if d < 0 {
				sign = -1.0
			}
			qNew := s.parabolic(i, sign)
			if s.q[i-1] < qNew && qNew < s.q[i+1] {
				s.q[i] = qNew
			} else {
				s.q[i] = s.linear(i, sign)
			}
			s.pos[i] += int(sign)
		}
	}
}

// findCell returns which of the 5 markers' cell x falls into, clamping
// endpoints and widening them when x is a new extreme.
func (s *pSquare) findCell(x float64) int {
	switch {
	case x < s.q[0]:
		s.q[0] = x
		return 0
	case x >= s.q[4]:
		s.q[4] = x
		return 3
	}
	for i := 0; i < 4; i++ {
		if s.q[i] <= x && x < s.q[i+1] {
			return i
		}
	}
	return 3
}

func (s *pSquare) parabolic(i int, d float64) float64 {
	return s.q[i] + d/float64(s.pos[i+1]-s.pos[i-1])*
		((float64(s.pos[i]-s.pos[i-1])+d)*(s.q[i+1]-s.q[i])/float64(s.pos[i+1]-s.pos[i])+
			(float64(s.pos[i+1]-s.pos[i])-d)*(s.q[i]-s.q[i-1])/float64(s.pos[i]-s.pos[i-1]))
}

func (s *pSquare) linear(i int, d float64) float64 {
	return s.q[i] + d*(s.q[i+int(d)]-s.q[i])/float64(s.pos[i+int(d)]-s.pos[i])
}

// bootstrap initializes the 5 markers from the first 5 observed samples.
func (s *pSquare) bootstrap() {
	buf := s.initBuf
	for i := 1; i < 5; i++ {
		for j := i; j > 0 && buf[j-1] > buf[j]; j-- {
			buf[j-1], buf[j] = buf[j], buf[j-1]
		}
	}
	copy(s.q[:], buf[:])
	for i := 0; i < 5; i++ {
		s.pos[i] = i
	}
	s.np[0], s.np[1], s.np[2], s.np[3], s.np[4] = 0, 2*s.p, 4*s.p, 2+2*s.p, 4
	s.dn[0], s.dn[1], s.dn[2], s.dn[3], s.dn[4] = 0, s.p/2, s.p, (1+s.p)/2, 1
}

// value returns the current quantile estimate. Before 5 samples have been
// observed, it falls back to the median of what's been seen so far.
func (s *pSquare) value() float64 {
	if s.filled < 5 {
		if s.filled == 0 {
			return 0
		}
		buf := make([]float64, s.filled)
		copy(buf, s.initBuf[:s.filled])
		for i := 1; i < len(buf); i++ {
			for j := i; j > 0 && buf[j-1] > buf[j]; j-- {
				buf[j-1], buf[j] = buf[j], buf[j-1]
			}
		}
		return buf[len(buf)/2]
	}
	return s.q[2]
}
