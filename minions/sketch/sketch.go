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

/*
Package sketch computes sketches of DNA sequences: subsets or combinations
of k-mer hash values chosen by minimizers, modmers, syncmers and strobemers.

All sketches are pull-based and single pass:

	iter, err := sketch.NewStrobemerHash(s, &sketch.StrobemerOptions{
		Shape:     shape,
		Order:     2,
		Selector:  sketch.HybridSelector{},
		WindowMin: 1,
		WindowMax: 6,
		Seed:      sketch.DefaultSeed,
	})
	if err != nil {
		return err
	}
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		// ...
	}

Parameters are validated in constructors, an iterator never fails.
*/
package sketch

// Iterator yields values one by one.
type Iterator interface {
	Next() (uint64, bool)
}

// Source is a finite stream with a known length.
type Source interface {
	Iterator
	Len() int
}

// Sketch is an Iterator that also reports the position of the last value.
type Sketch interface {
	Iterator
	// Index returns the 0-based k-mer (anchor) position of the last value.
	Index() int
}

// SliceSource streams a borrowed slice.
type SliceSource struct {
	data []uint64
	i    int
}

// NewSliceSource returns a Source of data. The slice is not copied.
func NewSliceSource(data []uint64) *SliceSource {
	return &SliceSource{data: data}
}

// Next returns the next value.
func (s *SliceSource) Next() (uint64, bool) {
	if s.i >= len(s.data) {
		return 0, false
	}
	s.i++
	return s.data[s.i-1], true
}

// Len returns the length of the whole stream.
func (s *SliceSource) Len() int { return len(s.data) }

// Index returns the position of the last value.
func (s *SliceSource) Index() int { return s.i - 1 }

// Reset restarts the stream.
func (s *SliceSource) Reset() { s.i = 0 }

// Collect drains an Iterator into a slice.
func Collect(iter Iterator) []uint64 {
	return drain(iter, make([]uint64, 0, 64))
}

// Reverse reverses values in place.
func Reverse(values []uint64) {
	for i, j := 0, len(values)-1; i < j; i, j = i+1, j-1 {
		values[i], values[j] = values[j], values[i]
	}
}

func drain(iter Iterator, values []uint64) []uint64 {
	for {
		v, ok := iter.Next()
		if !ok {
			return values
		}
		values = append(values, v)
	}
}

func min64(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}
