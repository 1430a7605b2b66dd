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

// DefaultSeed is the default seed XORed to k-mer hashes.
const DefaultSeed uint64 = 0x8F3F73B5CF1C9ADE

var base2bit [256]uint8

func init() {
	// bases other than ACGT are treated as A.
	base2bit['C'], base2bit['c'] = 1, 1
	base2bit['G'], base2bit['g'] = 2, 2
	base2bit['T'], base2bit['t'] = 3, 3
	base2bit['U'], base2bit['u'] = 3, 3
}

// HashIterator computes hash values of k-mers of a given shape.
// The hash of a k-mer is the 2-bit encoding (A:0, C:1, G:2, T:3)
// of bases at informative positions, XORed with the seed.
type HashIterator struct {
	s       []byte
	shape   Shape
	seed    uint64
	revcomp bool

	n    int // number of k-mers
	i    int // index of the next k-mer
	k    int
	mask uint64
	code uint64 // rolling code of ungapped k-mers
}

// NewHashIterator returns a HashIterator of k-mers of the forward strand.
// A sequence shorter than the shape has no k-mers.
func NewHashIterator(s []byte, shape Shape, seed uint64) *HashIterator {
	return newHashIterator(s, shape, seed, false)
}

// NewRevCompHashIterator returns a HashIterator of k-mers of the reverse
// complement sequence, in the order they appear on it. The i-th value is
// the opposite strand of the forward k-mer at len(s)-shape.Size()-i.
func NewRevCompHashIterator(s []byte, shape Shape, seed uint64) *HashIterator {
	return newHashIterator(s, shape, seed, true)
}

func newHashIterator(s []byte, shape Shape, seed uint64, revcomp bool) *HashIterator {
	n := len(s) - shape.Size() + 1
	if n < 0 || shape.Size() == 0 {
		n = 0
	}
	k := shape.Count()
	mask := uint64(1)<<uint(k<<1) - 1
	if k == 32 {
		mask = ^uint64(0)
	}
	return &HashIterator{
		s:       s,
		shape:   shape,
		seed:    seed,
		revcomp: revcomp,
		n:       n,
		k:       k,
		mask:    mask,
	}
}

func (iter *HashIterator) base(j int) uint64 {
	if iter.revcomp {
		return uint64(3 - base2bit[iter.s[len(iter.s)-1-j]])
	}
	return uint64(base2bit[iter.s[j]])
}

// Next returns the next hash value.
func (iter *HashIterator) Next() (uint64, bool) {
	if iter.i >= iter.n {
		return 0, false
	}
	i := iter.i
	iter.i++

	if iter.shape.IsUngapped() {
		if i == 0 {
			iter.code = 0
			for j := 0; j < iter.k; j++ {
				iter.code = iter.code<<2 | iter.base(j)
			}
		} else {
			iter.code = (iter.code<<2 | iter.base(i+iter.k-1)) & iter.mask
		}
		return iter.code ^ iter.seed, true
	}

	var code uint64
	for _, p := range iter.shape.pos {
		code = code<<2 | iter.base(i+p)
	}
	return code ^ iter.seed, true
}

// Len returns the number of k-mers.
func (iter *HashIterator) Len() int { return iter.n }

// Index returns the position of the last k-mer.
func (iter *HashIterator) Index() int { return iter.i - 1 }

// Reset restarts the iterator.
func (iter *HashIterator) Reset() { iter.i = 0 }

// KmerHashes returns hash values of all k-mers on the forward strand.
func KmerHashes(s []byte, shape Shape, seed uint64) []uint64 {
	iter := NewHashIterator(s, shape, seed)
	return drain(iter, make([]uint64, 0, iter.Len()))
}

// RevCompHashes returns hash values of the reverse complement sequence,
// in the order of the reverse complement sequence.
func RevCompHashes(s []byte, shape Shape, seed uint64) []uint64 {
	iter := NewRevCompHashIterator(s, shape, seed)
	return drain(iter, make([]uint64, 0, iter.Len()))
}

// AlignedRevCompHashes returns hash values of the opposite strand aligned
// with forward k-mers: the i-th value is read on the other strand of the
// forward k-mer i.
func AlignedRevCompHashes(s []byte, shape Shape, seed uint64) []uint64 {
	values := RevCompHashes(s, shape, seed)
	Reverse(values)
	return values
}

// AdjustSeed shrinks a seed to the value range of k-mers of size k.
func AdjustSeed(k int, seed uint64) uint64 {
	if k < 1 || k >= 32 {
		return seed
	}
	return seed >> uint(64-(k<<1))
}
