// Copyright © 2020-2021 Wei Shen <shenwei356@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package sketch

// Minimizer reports the minimum value of every sliding window of w values.
// A value is reported once, when it becomes the minimum: either it is
// smaller than the current minimum, or the current minimum leaves the
// window and the window is scanned again, ties broken by the rightmost one.
// A stream shorter than w gives its rightmost global minimum.
type Minimizer struct {
	fwd Iterator
	rev Iterator // aligned stream of the opposite strand, optional
	w   int

	buf  []uint64 // ring buffer of the latest w values
	read int
	cur  uint64
	pos  int // position of cur
	idx  int // position of the last reported value
}

// NewMinimizer returns minimizers of a single stream.
func NewMinimizer(src Source, w int) (*Minimizer, error) {
	if w < 1 {
		return nil, ErrMinimizerWindow
	}
	return &Minimizer{fwd: src, w: w, buf: make([]uint64, w), idx: -1}, nil
}

// NewMinimizer2 returns minimizers of min(fwd[i], rev[i]) of two
// position-aligned streams.
func NewMinimizer2(fwd, rev Source, w int) (*Minimizer, error) {
	if w < 1 {
		return nil, ErrMinimizerWindow
	}
	if fwd.Len() != rev.Len() {
		return nil, ErrUnequalStreams
	}
	return &Minimizer{fwd: fwd, rev: rev, w: w, buf: make([]uint64, w), idx: -1}, nil
}

// NewMinimizerHash returns canonical minimizers of a sequence, windowSize
// is the number of bases covered by a window.
func NewMinimizerHash(s []byte, shape Shape, windowSize int, seed uint64) (*Minimizer, error) {
	if shape.Size() > windowSize {
		return nil, ErrShapeWindow
	}
	return NewMinimizer2(NewHashIterator(s, shape, seed),
		NewSliceSource(AlignedRevCompHashes(s, shape, seed)),
		windowSize-shape.Size()+1)
}

func (m *Minimizer) value() (uint64, bool) {
	v, ok := m.fwd.Next()
	if !ok {
		return 0, false
	}
	if m.rev != nil {
		r, ok := m.rev.Next()
		if !ok {
			return 0, false
		}
		v = min64(v, r)
	}
	m.buf[m.read%m.w] = v
	m.read++
	return v, true
}

// rescan finds the rightmost minimum in [lo, hi].
func (m *Minimizer) rescan(lo, hi int) {
	m.cur, m.pos = m.buf[lo%m.w], lo
	var v uint64
	for p := lo + 1; p <= hi; p++ {
		v = m.buf[p%m.w]
		if v <= m.cur {
			m.cur, m.pos = v, p
		}
	}
}

// Next returns the next minimizer.
func (m *Minimizer) Next() (uint64, bool) {
	if m.idx < 0 {
		for m.read < m.w {
			if _, ok := m.value(); !ok {
				break
			}
		}
		if m.read == 0 {
			return 0, false
		}
		m.rescan(0, m.read-1)
		m.idx = m.pos
		return m.cur, true
	}

	var v uint64
	var ok bool
	var i int
	for {
		v, ok = m.value()
		if !ok {
			return 0, false
		}
		i = m.read - 1
		if v < m.cur {
			m.cur, m.pos = v, i
			m.idx = i
			return v, true
		}
		if m.pos < i-m.w+1 {
			m.rescan(i-m.w+1, i)
			m.idx = m.pos
			return m.cur, true
		}
	}
}

// Index returns the position of the last minimizer.
func (m *Minimizer) Index() int { return m.idx }

// NewMinimizerDistance returns distances between consecutive minimizers of a stream.
func NewMinimizerDistance(src Source, w int) (*Gaps, error) {
	if w < 2 {
		return nil, ErrMinimizerWindow
	}
	m, err := NewMinimizer(src, w)
	if err != nil {
		return nil, err
	}
	return NewGaps(m), nil
}

// NewMinimizerDistance2 returns distances between consecutive minimizers
// of two position-aligned streams.
func NewMinimizerDistance2(fwd, rev Source, w int) (*Gaps, error) {
	if w < 2 {
		return nil, ErrMinimizerWindow
	}
	m, err := NewMinimizer2(fwd, rev, w)
	if err != nil {
		return nil, err
	}
	return NewGaps(m), nil
}

// NewMinimizerHashDistance returns distances between consecutive canonical
// minimizers of a sequence.
func NewMinimizerHashDistance(s []byte, shape Shape, windowSize int, seed uint64) (*Gaps, error) {
	if shape.Size() > windowSize {
		return nil, ErrShapeWindow
	}
	if windowSize-shape.Size()+1 < 2 {
		return nil, ErrMinimizerWindow
	}
	m, err := NewMinimizerHash(s, shape, windowSize, seed)
	if err != nil {
		return nil, err
	}
	return NewGaps(m), nil
}
