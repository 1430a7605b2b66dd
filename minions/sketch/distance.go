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

// Gaps converts positions of a Sketch into the numbers of positions
// skipped between consecutive values, p - prev - 1, with prev = -1 at start.
type Gaps struct {
	sk   Sketch
	prev int
}

// NewGaps creates a Gaps.
func NewGaps(sk Sketch) *Gaps {
	return &Gaps{sk: sk, prev: -1}
}

// Next returns the next gap.
func (g *Gaps) Next() (uint64, bool) {
	if _, ok := g.sk.Next(); !ok {
		return 0, false
	}
	p := g.sk.Index()
	d := p - g.prev - 1
	g.prev = p
	return uint64(d), true
}

// Index returns the position of the value closing the last gap.
func (g *Gaps) Index() int { return g.prev }
