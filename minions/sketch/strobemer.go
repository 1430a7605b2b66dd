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

import "strings"

// Strategy tags how a strobe is selected from its window.
type Strategy uint8

const (
	// MinStrobe selects the smallest value.
	MinStrobe Strategy = iota
	// RandStrobe selects the value minimizing a combination with the previous strobes.
	RandStrobe
	// HybridStrobe selects the smallest value in one third of the window, chosen by the anchor.
	HybridStrobe
)

func (s Strategy) String() string {
	switch s {
	case MinStrobe:
		return "minstrobe"
	case RandStrobe:
		return "randstrobe"
	case HybridStrobe:
		return "hybridstrobe"
	}
	return "unknown"
}

// ParseStrategy parses a strategy name: min, rand, hybrid, or with the "strobe" suffix.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.TrimSuffix(strings.ToLower(name), "strobe") {
	case "min":
		return MinStrobe, nil
	case "rand":
		return RandStrobe, nil
	case "hybrid":
		return HybridStrobe, nil
	}
	return 0, ErrStrategy
}

// Selector selects one strobe from a window.
type Selector interface {
	Strategy() Strategy
	// Check validates the window size.
	Check(size int) error
	// Select returns the selected value of window. anchor is the first strobe,
	// acc is the sum of all previously selected strobes (anchor included).
	Select(anchor, acc uint64, window []uint64) uint64
}

// NewSelector returns a Selector with default parameters.
func NewSelector(s Strategy) (Selector, error) {
	switch s {
	case MinStrobe:
		return MinSelector{}, nil
	case RandStrobe:
		return RandSelector{Mask: DefaultRandMask}, nil
	case HybridStrobe:
		return HybridSelector{}, nil
	}
	return nil, ErrStrategy
}

// MinSelector selects the leftmost smallest value.
type MinSelector struct{}

// Strategy returns MinStrobe.
func (MinSelector) Strategy() Strategy { return MinStrobe }

// Check accepts any positive size.
func (MinSelector) Check(size int) error {
	if size < 1 {
		return ErrWindowSize
	}
	return nil
}

// Select returns the leftmost minimum.
func (MinSelector) Select(_, _ uint64, window []uint64) uint64 {
	m := window[0]
	for _, v := range window[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

// DefaultRandMask is the default bit mask of RandSelector.
const DefaultRandMask uint64 = 0xAE

// RandSelector selects the value v minimizing (acc + v) & Mask, ties broken by the rightmost one.
// A zero Mask means DefaultRandMask.
type RandSelector struct {
	Mask uint64
}

// Strategy returns RandStrobe.
func (RandSelector) Strategy() Strategy { return RandStrobe }

// Check accepts any positive size.
func (RandSelector) Check(size int) error {
	if size < 1 {
		return ErrWindowSize
	}
	return nil
}

// Select returns the value minimizing (acc + v) & Mask.
func (r RandSelector) Select(_, acc uint64, window []uint64) uint64 {
	mask := r.Mask
	if mask == 0 {
		mask = DefaultRandMask
	}
	m := window[0]
	best := (acc + m) & mask
	var t uint64
	for _, v := range window[1:] {
		t = (acc + v) & mask
		if t <= best {
			best, m = t, v
		}
	}
	return m
}

// HybridSelector splits the window into three parts of ceil(size/3) values,
// and selects the rightmost minimum of the part anchor%3.
type HybridSelector struct{}

// Strategy returns HybridStrobe.
func (HybridSelector) Strategy() Strategy { return HybridStrobe }

// Check rejects windows leaving a part empty or unbalanced.
func (HybridSelector) Check(size int) error {
	if size < 3 || size%3 == 1 {
		return ErrHybridWindow
	}
	return nil
}

// Select returns the rightmost minimum of the part chosen by the anchor.
func (HybridSelector) Select(anchor, _ uint64, window []uint64) uint64 {
	part := (len(window) + 2) / 3
	lo := int(anchor%3) * part
	hi := lo + part
	if hi > len(window) {
		hi = len(window)
	}
	m := window[lo]
	for _, v := range window[lo+1 : hi] {
		if v <= m {
			m = v
		}
	}
	return m
}

// ------------------------------------------------------------------------

// multiplier returns 4^count, count should be smaller than 32.
func multiplier(count int) uint64 {
	return uint64(1) << uint(count<<1)
}

func checkStrobes(src Source, sel Selector, dist, size, count, span int) error {
	if sel == nil {
		return ErrSelector
	}
	if dist < 1 {
		return ErrWindowMin
	}
	if size < 1 {
		return ErrWindowSize
	}
	if err := sel.Check(size); err != nil {
		return err
	}
	// 4^32 overflows uint64 and the anchor would be lost
	if count < 1 || count > 31 {
		return ErrKOverflow
	}
	if n := src.Len(); n > 0 && n < span {
		return ErrShortSeq
	}
	return nil
}

// Strobemer2 composes an anchor value at position i with a strobe
// selected from values [i+dist, i+dist+size). The output value is
// anchor * 4^count + strobe.
type Strobemer2 struct {
	src  Iterator
	sel  Selector
	dist int
	span int
	mult uint64

	buf []uint64 // ring buffer of the latest span values
	win []uint64
	mw  *minWindow // for MinSelector
	n   int        // number of values read
	i   int        // anchor of the last output
}

// NewStrobemer2 returns an order-2 strobemer composer over k-mer hash values,
// count is the number of informative positions of their shape.
// An empty source gives no values.
func NewStrobemer2(src Source, sel Selector, dist, size, count int) (*Strobemer2, error) {
	span := dist + size
	if err := checkStrobes(src, sel, dist, size, count, span); err != nil {
		return nil, err
	}
	s := &Strobemer2{
		src:  src,
		sel:  sel,
		dist: dist,
		span: span,
		mult: multiplier(count),
		buf:  make([]uint64, span),
		win:  make([]uint64, size),
		i:    -1,
	}
	if _, ok := sel.(MinSelector); ok {
		s.mw = newMinWindow(dist, size)
	}
	return s, nil
}

// Next returns the next strobemer.
func (s *Strobemer2) Next() (uint64, bool) {
	end := s.i + 1 + s.span
	for s.n < end {
		v, ok := s.src.Next()
		if !ok {
			return 0, false
		}
		s.buf[s.n%s.span] = v
		s.n++
	}
	s.i++

	anchor := s.buf[s.i%s.span]
	if s.mw != nil {
		return anchor*s.mult + s.mw.min(s.buf, s.i), true
	}
	p := s.i + s.dist
	for j := range s.win {
		s.win[j] = s.buf[(p+j)%s.span]
	}
	return anchor*s.mult + s.sel.Select(anchor, anchor, s.win), true
}

// Index returns the anchor position of the last strobemer.
func (s *Strobemer2) Index() int { return s.i }

// Strobemer3 composes an anchor value at position i with a strobe from
// [i+dist, i+dist+size) and another from [i+2*dist+size-1, i+2*dist+2*size-1).
// The output value is anchor * 4^(2*count) + second * 4^count + third.
type Strobemer3 struct {
	src   Iterator
	sel   Selector
	dist  int
	dist3 int // offset of the third window
	span  int
	mult  uint64

	buf  []uint64
	win  []uint64
	win3 []uint64
	mw   *minWindow // for MinSelector
	mw3  *minWindow
	n    int
	i    int
}

// NewStrobemer3 returns an order-3 strobemer composer.
func NewStrobemer3(src Source, sel Selector, dist, size, count int) (*Strobemer3, error) {
	span := 2*dist + 2*size - 1
	if err := checkStrobes(src, sel, dist, size, count, span); err != nil {
		return nil, err
	}
	s := &Strobemer3{
		src:   src,
		sel:   sel,
		dist:  dist,
		dist3: 2*dist + size - 1,
		span:  span,
		mult:  multiplier(count),
		buf:   make([]uint64, span),
		win:   make([]uint64, size),
		win3:  make([]uint64, size),
		i:     -1,
	}
	if _, ok := sel.(MinSelector); ok {
		s.mw = newMinWindow(dist, size)
		s.mw3 = newMinWindow(s.dist3, size)
	}
	return s, nil
}

// Next returns the next strobemer.
func (s *Strobemer3) Next() (uint64, bool) {
	end := s.i + 1 + s.span
	for s.n < end {
		v, ok := s.src.Next()
		if !ok {
			return 0, false
		}
		s.buf[s.n%s.span] = v
		s.n++
	}
	s.i++

	anchor := s.buf[s.i%s.span]
	if s.mw != nil {
		return anchor*s.mult*s.mult + s.mw.min(s.buf, s.i)*s.mult + s.mw3.min(s.buf, s.i), true
	}
	p, p3 := s.i+s.dist, s.i+s.dist3
	for j := range s.win {
		s.win[j] = s.buf[(p+j)%s.span]
		s.win3[j] = s.buf[(p3+j)%s.span]
	}
	second := s.sel.Select(anchor, anchor, s.win)
	third := s.sel.Select(anchor, anchor+second, s.win3)
	return anchor*s.mult*s.mult + second*s.mult + third, true
}

// Index returns the anchor position of the last strobemer.
func (s *Strobemer3) Index() int { return s.i }
