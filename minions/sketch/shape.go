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

import (
	"math/bits"
	"strings"
)

// Shape defines which positions of a k-mer window contribute to the hash.
type Shape struct {
	size int   // span of the window
	pos  []int // offsets of informative positions
}

// Ungapped returns a shape of k consecutive informative positions.
func Ungapped(k int) (Shape, error) {
	if k < 1 || k > 32 {
		return Shape{}, ErrKOverflow
	}
	pos := make([]int, k)
	for i := range pos {
		pos[i] = i
	}
	return Shape{size: k, pos: pos}, nil
}

// NewShape creates a shape from a bit mask, the most significant set bit
// being the first position. e.g., 0b1001 for "1001".
func NewShape(mask uint64) (Shape, error) {
	if mask == 0 || mask&1 == 0 {
		return Shape{}, ErrInvalidShape
	}
	size := bits.Len64(mask)
	if bits.OnesCount64(mask) > 32 {
		return Shape{}, ErrKOverflow
	}
	pos := make([]int, 0, bits.OnesCount64(mask))
	for i := 0; i < size; i++ {
		if mask>>uint(size-1-i)&1 == 1 {
			pos = append(pos, i)
		}
	}
	return Shape{size: size, pos: pos}, nil
}

// ParseShape parses a shape from a string of 0 and 1, e.g., "1101".
func ParseShape(s string) (Shape, error) {
	if s == "" || len(s) > 64 {
		return Shape{}, ErrInvalidShape
	}
	var mask uint64
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '1':
			mask = mask<<1 | 1
		case '0':
			mask <<= 1
		default:
			return Shape{}, ErrInvalidShape
		}
	}
	if s[0] != '1' {
		return Shape{}, ErrInvalidShape
	}
	return NewShape(mask)
}

// Size returns the span of the shape.
func (sh Shape) Size() int { return sh.size }

// Count returns the number of informative positions.
func (sh Shape) Count() int { return len(sh.pos) }

// IsUngapped tells if all positions are informative.
func (sh Shape) IsUngapped() bool { return len(sh.pos) == sh.size }

// Mask returns the bit mask of the shape.
func (sh Shape) Mask() uint64 {
	var mask uint64
	for _, p := range sh.pos {
		mask |= 1 << uint(sh.size-1-p)
	}
	return mask
}

func (sh Shape) String() string {
	var b strings.Builder
	b.Grow(sh.size)
	j := 0
	for i := 0; i < sh.size; i++ {
		if j < len(sh.pos) && sh.pos[j] == i {
			b.WriteByte('1')
			j++
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}
