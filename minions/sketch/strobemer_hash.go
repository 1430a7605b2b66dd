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

// StrobemerOptions contains parameters of canonical strobemers.
type StrobemerOptions struct {
	Shape    Shape
	Order    int // 2 or 3
	Selector Selector

	// Strobes following the anchor k-mer start in [WindowMin, WindowMax) k-mers away.
	WindowMin int
	WindowMax int

	Seed uint64
}

func (opt *StrobemerOptions) check() error {
	if opt.Order != 2 && opt.Order != 3 {
		return ErrOrder
	}
	if opt.Selector == nil {
		return ErrSelector
	}
	if opt.Shape.Size() == 0 {
		return ErrInvalidShape
	}
	if opt.WindowMax <= opt.WindowMin {
		return ErrWindowRange
	}
	if opt.WindowMin < 1 {
		return ErrWindowMin
	}
	if opt.WindowMax-opt.Shape.Size()+1 < 1 {
		return ErrWindowSize
	}
	return nil
}

// Strobes returns the distance to the first strobe window and the window size.
func (opt *StrobemerOptions) Strobes() (dist, size int) {
	return opt.WindowMin + opt.Shape.Size() - 1, opt.WindowMax - opt.Shape.Size() + 1
}

// StrobemerHash computes canonical strobemers of a sequence: strobemers of
// the forward strand and the reverse complement strand are computed
// independently, and the smaller one of each aligned position is returned.
type StrobemerHash struct {
	fwd Sketch
	rev []uint64 // strobemers of the reverse complement strand, aligned
	i   int
}

// NewStrobemerHash creates a StrobemerHash.
func NewStrobemerHash(s []byte, opt *StrobemerOptions) (*StrobemerHash, error) {
	if err := opt.check(); err != nil {
		return nil, err
	}
	dist, size := opt.Strobes()

	fwd, err := newStrobemer(NewHashIterator(s, opt.Shape, opt.Seed), opt, dist, size)
	if err != nil {
		return nil, err
	}
	r, err := newStrobemer(NewRevCompHashIterator(s, opt.Shape, opt.Seed), opt, dist, size)
	if err != nil {
		return nil, err
	}
	rev := Collect(r)
	Reverse(rev)

	return &StrobemerHash{fwd: fwd, rev: rev, i: -1}, nil
}

func newStrobemer(src Source, opt *StrobemerOptions, dist, size int) (Sketch, error) {
	if opt.Order == 3 {
		return NewStrobemer3(src, opt.Selector, dist, size, opt.Shape.Count())
	}
	return NewStrobemer2(src, opt.Selector, dist, size, opt.Shape.Count())
}

// Next returns the next canonical strobemer.
func (h *StrobemerHash) Next() (uint64, bool) {
	v, ok := h.fwd.Next()
	if !ok {
		return 0, false
	}
	h.i++
	return min64(v, h.rev[h.i]), true
}

// Index returns the anchor position of the last strobemer.
func (h *StrobemerHash) Index() int { return h.i }

// Len returns the number of strobemers.
func (h *StrobemerHash) Len() int { return len(h.rev) }
