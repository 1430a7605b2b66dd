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

// minQueue tracks the leftmost (or rightmost) minimum of a sliding window.
type minQueue struct {
	pos   []int
	val   []uint64
	head  int
	n     int
	right bool
}

func newMinQueue(size int, rightmost bool) *minQueue {
	return &minQueue{pos: make([]int, size), val: make([]uint64, size), right: rightmost}
}

// push appends a value, dropping larger (or not smaller) values before it.
func (q *minQueue) push(p int, v uint64) {
	size := len(q.pos)
	var b uint64
	for q.n > 0 {
		b = q.val[(q.head+q.n-1)%size]
		if b < v || (b == v && !q.right) {
			break
		}
		q.n--
	}
	j := (q.head + q.n) % size
	q.pos[j], q.val[j] = p, v
	q.n++
}

// expire drops values before position lo.
func (q *minQueue) expire(lo int) {
	for q.n > 0 && q.pos[q.head] < lo {
		q.head = (q.head + 1) % len(q.pos)
		q.n--
	}
}

func (q *minQueue) front() (int, uint64) {
	return q.pos[q.head], q.val[q.head]
}

// minWindow maintains the leftmost minimum of a strobe window at a fixed
// offset to the anchor, reading values from the ring buffer of a composer.
type minWindow struct {
	q    *minQueue
	off  int
	size int
	next int // next position to push
}

func newMinWindow(off, size int) *minWindow {
	return &minWindow{q: newMinQueue(size+1, false), off: off, size: size, next: off}
}

// min returns the minimum of the window of anchor i. Anchors must be
// visited in order, and buf must hold positions [i, i+off+size).
func (w *minWindow) min(buf []uint64, i int) uint64 {
	end := i + w.off + w.size
	for ; w.next < end; w.next++ {
		w.q.push(w.next, buf[w.next%len(buf)])
	}
	w.q.expire(i + w.off)
	_, v := w.q.front()
	return v
}
