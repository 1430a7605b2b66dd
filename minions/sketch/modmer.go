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

// Modmer selects values v whose key satisfies key % mod == 0.
// For a single stream, the key is the value itself.
// For canonical modmers, v is the smaller one of the forward and reverse
// complement k-mer hashes and the key is mix(v, seed).
type Modmer struct {
	fwd  Iterator
	rev  []uint64 // aligned hashes of the opposite strand
	mod  uint64
	seed uint64
	mix  Mixer

	n   int // number of values read
	idx int
}

// NewModmer returns modmers of a single stream.
func NewModmer(src Source, mod uint64) (*Modmer, error) {
	if mod <= 1 {
		return nil, ErrModulus
	}
	return &Modmer{fwd: src, mod: mod, idx: -1}, nil
}

// NewModmer2 returns canonical modmers of two position-aligned streams.
// A nil mixer means Mix.
func NewModmer2(fwd, rev Source, mod uint64, seed uint64, mixer Mixer) (*Modmer, error) {
	if mod <= 1 {
		return nil, ErrModulus
	}
	if fwd.Len() != rev.Len() {
		return nil, ErrUnequalStreams
	}
	return &Modmer{
		fwd:  fwd,
		rev:  drain(rev, make([]uint64, 0, rev.Len())),
		mod:  mod,
		seed: seed,
		mix:  mixerOrDefault(mixer),
		idx:  -1,
	}, nil
}

// NewModmerHash returns canonical modmers of a sequence.
func NewModmerHash(s []byte, shape Shape, mod uint64, seed uint64, mixer Mixer) (*Modmer, error) {
	if mod <= 1 {
		return nil, ErrModulus
	}
	return &Modmer{
		fwd:  NewHashIterator(s, shape, seed),
		rev:  AlignedRevCompHashes(s, shape, seed),
		mod:  mod,
		seed: seed,
		mix:  mixerOrDefault(mixer),
		idx:  -1,
	}, nil
}

func mixerOrDefault(mixer Mixer) Mixer {
	if mixer == nil {
		return Mix
	}
	return mixer
}

// Next returns the next modmer.
func (m *Modmer) Next() (uint64, bool) {
	var v uint64
	var ok bool
	for {
		v, ok = m.fwd.Next()
		if !ok {
			return 0, false
		}
		m.n++

		if m.rev == nil {
			if v%m.mod == 0 {
				m.idx = m.n - 1
				return v, true
			}
			continue
		}

		// the key is min(f, r), not f+r
		v = min64(v, m.rev[m.n-1])
		if m.mix(v, m.seed)%m.mod == 0 {
			m.idx = m.n - 1
			return v, true
		}
	}
}

// Index returns the k-mer position of the last modmer.
func (m *Modmer) Index() int { return m.idx }

// NewModmerDistance returns the number of skipped values between
// consecutive modmers of a single stream.
func NewModmerDistance(src Source, mod uint64) (*Gaps, error) {
	m, err := NewModmer(src, mod)
	if err != nil {
		return nil, err
	}
	return NewGaps(m), nil
}

// NewModmerHashDistance returns distances between consecutive canonical
// modmers of a sequence.
func NewModmerHashDistance(s []byte, shape Shape, mod uint64, seed uint64, mixer Mixer) (*Gaps, error) {
	m, err := NewModmerHash(s, shape, mod, seed, mixer)
	if err != nil {
		return nil, err
	}
	return NewGaps(m), nil
}
