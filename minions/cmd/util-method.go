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

package cmd

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/shenwei356/bio/seq"
	"github.com/shenwei356/bio/sketches"
	"github.com/shenwei356/minions/minions/sketch"
)

// Kinds of sketching methods.
const (
	KindKmer        = "kmer"
	KindMinimiser   = "minimiser"
	KindModmer      = "modmer"
	KindStrobemer   = "strobemer"
	KindSyncmer     = "syncmer"
	KindOpenSyncmer = "opensyncmer"
)

var kindAliases = map[string]string{
	"kmer":        KindKmer,
	"kmers":       KindKmer,
	"minimiser":   KindMinimiser,
	"minimizer":   KindMinimiser,
	"modmer":      KindModmer,
	"modmers":     KindModmer,
	"strobemer":   KindStrobemer,
	"strobemers":  KindStrobemer,
	"syncmer":     KindSyncmer,
	"syncmers":    KindSyncmer,
	"opensyncmer": KindOpenSyncmer,
}

// Method is a validated sketching method.
type Method struct {
	Kind  string
	K     int
	W     int // window size in bases, modulus, or s-mer size
	Shape sketch.Shape

	Strobemer *sketch.StrobemerOptions

	Positions []int
	Canonical bool

	Seed      uint64
	MixerName string
	Mixer     sketch.Mixer

	BioSketches bool
}

// NewMethod validates parameters and creates a Method.
func NewMethod(cfg *MethodConfig) (*Method, error) {
	kind, ok := kindAliases[strings.ToLower(cfg.Method)]
	if !ok {
		return nil, fmt.Errorf("unknown method: %s, available: kmer, minimiser, modmer, strobemer, syncmer, opensyncmer", cfg.Method)
	}
	m := &Method{
		Kind:        kind,
		K:           cfg.K,
		W:           cfg.W,
		Canonical:   cfg.Canonical,
		MixerName:   cfg.Mixer,
		BioSketches: cfg.BioSketches,
	}

	var err error
	if m.Seed, err = parseUint64(cfg.Seed); err != nil {
		return nil, errors.Wrapf(err, "invalid seed: %s", cfg.Seed)
	}
	if m.Mixer, err = sketch.MixerByName(cfg.Mixer); err != nil {
		return nil, errors.Wrap(err, cfg.Mixer)
	}

	if cfg.Shape != "" {
		var mask uint64
		if mask, err = parseUint64(cfg.Shape); err != nil {
			return nil, errors.Wrapf(err, "invalid shape: %s", cfg.Shape)
		}
		if m.Shape, err = sketch.NewShape(mask); err != nil {
			return nil, errors.Wrapf(err, "shape: %s", cfg.Shape)
		}
		m.K = m.Shape.Size()
	} else if m.Shape, err = sketch.Ungapped(m.K); err != nil {
		return nil, errors.Wrapf(err, "k: %d", m.K)
	}

	if m.BioSketches {
		switch m.Kind {
		case KindKmer, KindMinimiser, KindSyncmer:
		default:
			return nil, fmt.Errorf("--bio-sketches only supports kmer, minimiser and syncmer")
		}
		if !m.Shape.IsUngapped() {
			return nil, fmt.Errorf("--bio-sketches does not support gapped shapes")
		}
	}

	switch m.Kind {
	case KindMinimiser:
		if m.W < m.K {
			return nil, fmt.Errorf("minimiser window (-w %d) should not be smaller than k (%d)", m.W, m.K)
		}
	case KindModmer:
		if m.W < 2 {
			return nil, errors.Wrapf(sketch.ErrModulus, "-w %d", m.W)
		}
	case KindSyncmer, KindOpenSyncmer:
		if !m.Shape.IsUngapped() {
			return nil, fmt.Errorf("syncmers do not support gapped shapes")
		}
		if m.W < 1 || m.W >= m.K {
			return nil, errors.Wrapf(sketch.ErrSmerSize, "s: %d, k: %d", m.W, m.K)
		}
		width := m.K - m.W + 1
		if len(cfg.Positions) > 0 {
			m.Positions = cfg.Positions
		} else if m.Kind == KindOpenSyncmer {
			m.Positions = sketch.OpenPositions(width)
		} else {
			m.Positions = sketch.ClosedPositions(width)
		}
		for _, p := range m.Positions {
			if p < 0 || p >= width {
				return nil, errors.Wrapf(sketch.ErrPositions, "position %d out of range [0, %d]", p, width-1)
			}
		}
	case KindStrobemer:
		strategy, err := sketch.ParseStrategy(cfg.Strategy)
		if err != nil {
			return nil, errors.Wrapf(err, "strategy: %s", cfg.Strategy)
		}
		sel, err := sketch.NewSelector(strategy)
		if err != nil {
			return nil, err
		}
		if strategy == sketch.RandStrobe && cfg.RandMask != "" {
			mask, err := parseUint64(cfg.RandMask)
			if err != nil {
				return nil, errors.Wrapf(err, "invalid rand mask: %s", cfg.RandMask)
			}
			sel = sketch.RandSelector{Mask: mask}
		}
		m.Strobemer = &sketch.StrobemerOptions{
			Shape:     m.Shape,
			Order:     cfg.Order,
			Selector:  sel,
			WindowMin: cfg.WindowMin,
			WindowMax: cfg.WindowMax,
			Seed:      m.HashSeed(),
		}
		// an empty sequence checks all parameters
		if _, err = sketch.NewStrobemerHash(nil, m.Strobemer); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// Name returns the name of a method, used in output file names.
func (m *Method) Name() string {
	switch m.Kind {
	case KindKmer:
		return fmt.Sprintf("kmer_hash_%d", m.K)
	case KindMinimiser:
		return fmt.Sprintf("minimiser_hash_%d_%d", m.K, m.W)
	case KindModmer:
		return fmt.Sprintf("modmer_hash_%d_%d", m.K, m.W)
	case KindStrobemer:
		opt := m.Strobemer
		return fmt.Sprintf("%sstrobemers_%d_%d_%d_%d",
			strings.TrimSuffix(opt.Selector.Strategy().String(), "strobe"),
			m.K, opt.Order, opt.WindowMin, opt.WindowMax)
	case KindSyncmer:
		return fmt.Sprintf("syncmer_hash_%d_%d", m.W, m.K)
	case KindOpenSyncmer:
		return fmt.Sprintf("opensyncmer_hash_%d_%d", m.W, m.K)
	}
	return m.Kind
}

// HashSeed returns the seed XORed to k-mer and s-mer hashes. Only the
// highest 2k bits of the seed are kept, so seed 0 gives plain k-mer codes.
func (m *Method) HashSeed() uint64 {
	return sketch.AdjustSeed(m.Shape.Count(), m.Seed)
}

// Span returns the number of bases covered by a value at a position.
func (m *Method) Span() int {
	switch m.Kind {
	case KindStrobemer:
		dist, size := m.Strobemer.Strobes()
		if m.Strobemer.Order == 3 {
			return 2*dist + 2*size - 1 + m.K - 1
		}
		return dist + size + m.K - 1
	}
	return m.K
}

// Sketch returns a positional sketch of a sequence.
func (m *Method) Sketch(s []byte) (sketch.Sketch, error) {
	seed := m.HashSeed()
	switch m.Kind {
	case KindKmer:
		return sketch.NewHashIterator(s, m.Shape, seed), nil
	case KindMinimiser:
		return sketch.NewMinimizerHash(s, m.Shape, m.W, seed)
	case KindModmer:
		return sketch.NewModmerHash(s, m.Shape, uint64(m.W), seed, m.Mixer)
	case KindStrobemer:
		return sketch.NewStrobemerHash(s, m.Strobemer)
	case KindSyncmer, KindOpenSyncmer:
		if m.Canonical {
			return sketch.NewCanonicalSyncmerHash(s, m.W, m.K, m.Positions, seed)
		}
		return sketch.NewSyncmerHashWithPositions(s, m.W, m.K, m.Positions, seed)
	}
	return nil, fmt.Errorf("unknown method: %s", m.Kind)
}

// Distance returns gaps between consecutive selected positions, only
// for minimiser, modmer and syncmers.
func (m *Method) Distance(s []byte) (sketch.Iterator, error) {
	switch m.Kind {
	case KindMinimiser:
		return sketch.NewMinimizerHashDistance(s, m.Shape, m.W, m.HashSeed())
	case KindModmer, KindSyncmer, KindOpenSyncmer:
		sk, err := m.Sketch(s)
		if err != nil {
			return nil, err
		}
		return sketch.NewGaps(sk), nil
	}
	return nil, fmt.Errorf("distances are not supported for method: %s", m.Kind)
}

// AppendValues appends all sketch values of a sequence to values.
func (m *Method) AppendValues(s *seq.Seq, values []uint64) ([]uint64, error) {
	if m.BioSketches {
		return m.appendBioValues(s, values)
	}
	sk, err := m.Sketch(s.Seq)
	if err != nil {
		return values, err
	}
	var v uint64
	var ok bool
	for {
		v, ok = sk.Next()
		if !ok {
			break
		}
		values = append(values, v)
	}
	return values, nil
}

func (m *Method) appendBioValues(s *seq.Seq, values []uint64) ([]uint64, error) {
	var code uint64
	var ok bool

	switch m.Kind {
	case KindMinimiser:
		sk, err := sketches.NewMinimizerSketch(s, m.K, m.W-m.K+1, false)
		if err != nil {
			return values, err
		}
		for {
			code, ok = sk.NextMinimizer()
			if !ok {
				break
			}
			values = append(values, code)
		}
	case KindSyncmer:
		sk, err := sketches.NewSyncmerSketch(s, m.K, m.W, false)
		if err != nil {
			return values, err
		}
		for {
			code, ok = sk.NextSyncmer()
			if !ok {
				break
			}
			values = append(values, code)
		}
	default:
		iter, err := sketches.NewHashIterator(s, m.K, true, false)
		if err != nil {
			return values, err
		}
		for {
			code, ok = iter.NextHash()
			if !ok {
				break
			}
			values = append(values, code)
		}
	}
	return values, nil
}

// isShortSeq tells if a sequence is too short to be sketched.
func isShortSeq(err error) bool {
	err = errors.Cause(err)
	return err == sketch.ErrShortSeq || err == sketches.ErrShortSeq
}

func (m *Method) logParameters() {
	log.Infof("-------------------- [main parameters] --------------------")
	log.Infof("method: %s", m.Name())
	log.Infof("shape: %s", m.Shape)
	switch m.Kind {
	case KindKmer, KindMinimiser, KindModmer:
		log.Infof("seed: %#x", m.HashSeed())
	}
	switch m.Kind {
	case KindModmer:
		log.Infof("mixer: %s", m.MixerName)
	case KindStrobemer:
		dist, size := m.Strobemer.Strobes()
		log.Infof("strobe distance: %d, strobe window: %d", dist, size)
	case KindSyncmer, KindOpenSyncmer:
		log.Infof("positions: %v, canonical: %v", m.Positions, m.Canonical)
	}
	if m.BioSketches {
		log.Infof("using sketches from github.com/shenwei356/bio")
	}
	log.Infof("-------------------- [main parameters] --------------------")
}
