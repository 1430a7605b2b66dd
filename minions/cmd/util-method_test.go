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
	"testing"

	"github.com/pkg/errors"
	"github.com/shenwei356/minions/minions/sketch"
)

var text = []byte("ACGGCGACGTTTAG")

func equalUint64s(a, b []uint64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func mustMethod(t *testing.T, update func(cfg *MethodConfig)) *Method {
	cfg := DefaultMethodConfig()
	update(&cfg)
	m, err := NewMethod(&cfg)
	if err != nil {
		t.Fatalf("%+v: %s", cfg, err)
	}
	return m
}

func TestMethodName(t *testing.T) {
	tests := []struct {
		update func(cfg *MethodConfig)
		name   string
	}{
		{func(cfg *MethodConfig) {}, "kmer_hash_15"},
		{func(cfg *MethodConfig) { cfg.Method, cfg.K, cfg.W = "minimizer", 19, 31 }, "minimiser_hash_19_31"},
		{func(cfg *MethodConfig) { cfg.Method, cfg.K, cfg.W = "modmer", 19, 2 }, "modmer_hash_19_2"},
		{func(cfg *MethodConfig) { cfg.Method = "strobemer" }, "minstrobemers_15_2_25_50"},
		{func(cfg *MethodConfig) { cfg.Method, cfg.Strategy, cfg.Order = "strobemer", "rand", 3 }, "randstrobemers_15_3_25_50"},
		{func(cfg *MethodConfig) { cfg.Method, cfg.Strategy = "strobemer", "hybridstrobe" }, "hybridstrobemers_15_2_25_50"},
		{func(cfg *MethodConfig) { cfg.Method, cfg.K, cfg.W = "syncmer", 20, 12 }, "syncmer_hash_12_20"},
		{func(cfg *MethodConfig) { cfg.Method, cfg.K, cfg.W = "opensyncmer", 20, 12 }, "opensyncmer_hash_12_20"},
		{func(cfg *MethodConfig) { cfg.Shape = "0b11011" }, "kmer_hash_5"},
	}
	for i, test := range tests {
		m := mustMethod(t, test.update)
		if m.Name() != test.name {
			t.Errorf("[#%d] name error, expected %s, returned %s", i, test.name, m.Name())
		}
	}
}

func TestMethodErrors(t *testing.T) {
	tests := []struct {
		update func(cfg *MethodConfig)
		err    error
	}{
		{func(cfg *MethodConfig) { cfg.Method, cfg.W = "modmer", 1 }, sketch.ErrModulus},
		{func(cfg *MethodConfig) { cfg.Method, cfg.K, cfg.W = "syncmer", 5, 5 }, sketch.ErrSmerSize},
		{func(cfg *MethodConfig) { cfg.Method, cfg.K, cfg.W, cfg.Positions = "syncmer", 5, 2, []int{4} }, sketch.ErrPositions},
		{func(cfg *MethodConfig) { cfg.Method, cfg.WindowMin, cfg.WindowMax = "strobemer", 5, 5 }, sketch.ErrWindowRange},
		{func(cfg *MethodConfig) { cfg.Method, cfg.WindowMin = "strobemer", 0 }, sketch.ErrWindowMin},
		{func(cfg *MethodConfig) { cfg.Method, cfg.Order = "strobemer", 4 }, sketch.ErrOrder},
		{func(cfg *MethodConfig) { cfg.Method, cfg.Strategy = "strobemer", "max" }, sketch.ErrStrategy},
		{func(cfg *MethodConfig) { cfg.K = 33 }, sketch.ErrKOverflow},
		{func(cfg *MethodConfig) { cfg.Shape = "0b110" }, sketch.ErrInvalidShape},
		{func(cfg *MethodConfig) { cfg.Method, cfg.W, cfg.Mixer = "modmer", 2, "md5" }, sketch.ErrMixer},
	}
	for i, test := range tests {
		cfg := DefaultMethodConfig()
		test.update(&cfg)
		_, err := NewMethod(&cfg)
		if errors.Cause(err) != test.err {
			t.Errorf("[#%d] error expected: %s, returned: %v", i, test.err, err)
		}
	}

	for i, update := range []func(cfg *MethodConfig){
		func(cfg *MethodConfig) { cfg.Method = "minhash" },
		func(cfg *MethodConfig) { cfg.Method, cfg.K, cfg.W = "minimiser", 15, 10 },
		func(cfg *MethodConfig) { cfg.Method, cfg.W, cfg.BioSketches = "modmer", 2, true },
		func(cfg *MethodConfig) { cfg.Seed = "seed" },
	} {
		cfg := DefaultMethodConfig()
		update(&cfg)
		if _, err := NewMethod(&cfg); err == nil {
			t.Errorf("[#%d] error expected for %+v", i, cfg)
		}
	}
}

func TestMethodSeed(t *testing.T) {
	m := mustMethod(t, func(cfg *MethodConfig) { cfg.K = 4 })
	if m.Seed != sketch.DefaultSeed {
		t.Errorf("default seed error: %x", m.Seed)
	}
	if m.HashSeed() != sketch.DefaultSeed>>56 {
		t.Errorf("adjusted seed error: %x", m.HashSeed())
	}

	m = mustMethod(t, func(cfg *MethodConfig) { cfg.Method, cfg.K, cfg.W = "syncmer", 5, 2 })
	if m.HashSeed() != sketch.DefaultSeed>>54 {
		t.Errorf("adjusted seed error: %x", m.HashSeed())
	}

	m = mustMethod(t, func(cfg *MethodConfig) { cfg.Method, cfg.K = "strobemer", 5 })
	if m.Strobemer.Seed != sketch.DefaultSeed>>54 {
		t.Errorf("strobemer seed error: %x", m.Strobemer.Seed)
	}
}

func TestMethodSeedChangesValues(t *testing.T) {
	updates := []func(cfg *MethodConfig){
		func(cfg *MethodConfig) { cfg.Method, cfg.K, cfg.WindowMin, cfg.WindowMax = "strobemer", 5, 1, 6 },
		func(cfg *MethodConfig) {
			cfg.Method, cfg.K, cfg.WindowMin, cfg.WindowMax, cfg.Order = "strobemer", 5, 1, 6, 3
		},
		func(cfg *MethodConfig) { cfg.Method, cfg.K, cfg.W = "syncmer", 5, 2 },
		func(cfg *MethodConfig) { cfg.Method, cfg.K, cfg.W = "opensyncmer", 5, 2 },
		func(cfg *MethodConfig) { cfg.Method, cfg.K, cfg.W, cfg.Canonical = "syncmer", 5, 2, true },
	}
	seeds := []string{"0", "0x8F3F73B5CF1C9ADE", "0x123456789ABCDEF0"}

	s := []byte("ACGGCGACGTTTAGACGTCGACGTTTAGCATGCA")
	for i, update := range updates {
		values := make([][]uint64, len(seeds))
		var name string
		for j, seed := range seeds {
			m := mustMethod(t, func(cfg *MethodConfig) {
				update(cfg)
				cfg.Seed = seed
			})
			name = m.Name()
			sk, err := m.Sketch(s)
			if err != nil {
				t.Error(err)
				return
			}
			values[j] = sketch.Collect(sk)
			if len(values[j]) == 0 {
				t.Errorf("[#%d] %s: no values with seed %s", i, name, seed)
			}
		}
		for a := 0; a < len(seeds); a++ {
			for b := a + 1; b < len(seeds); b++ {
				if equalUint64s(values[a], values[b]) {
					t.Errorf("[#%d] %s: seeds %s and %s give the same values: %v",
						i, name, seeds[a], seeds[b], values[a])
				}
			}
		}
	}
}

func TestMethodSketch(t *testing.T) {
	tests := []struct {
		update    func(cfg *MethodConfig)
		values    []uint64
		positions []int
	}{
		{
			func(cfg *MethodConfig) { cfg.K, cfg.Seed = 4, "0" },
			[]uint64{26, 105, 166, 152, 97, 134, 27, 111, 191, 252, 242},
			[]int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
		},
		{
			func(cfg *MethodConfig) { cfg.Method, cfg.K, cfg.W, cfg.Seed = "minimiser", 4, 5, "0" },
			[]uint64{26, 101, 97, 27, 6, 1, 112},
			[]int{0, 2, 4, 6, 7, 8, 10},
		},
		{
			func(cfg *MethodConfig) { cfg.Method, cfg.K, cfg.W, cfg.Seed = "modmer", 4, 2, "0" },
			[]uint64{26, 152, 6, 192, 112},
			nil,
		},
		{
			func(cfg *MethodConfig) { cfg.Method, cfg.K, cfg.W, cfg.Seed = "syncmer", 5, 2, "0" },
			[]uint64{105, 422, 609, 111, 447, 764, 1010},
			[]int{0, 1, 3, 6, 7, 8, 9},
		},
		{
			func(cfg *MethodConfig) { cfg.Method, cfg.K, cfg.W, cfg.Seed = "opensyncmer", 5, 2, "0" },
			[]uint64{105, 422, 111, 447, 764},
			nil,
		},
	}
	for i, test := range tests {
		m := mustMethod(t, test.update)
		sk, err := m.Sketch(text)
		if err != nil {
			t.Error(err)
			return
		}
		var values []uint64
		var positions []int
		for {
			v, ok := sk.Next()
			if !ok {
				break
			}
			values = append(values, v)
			positions = append(positions, sk.Index())
		}
		if !equalUint64s(values, test.values) {
			t.Errorf("[#%d] %s: values error, expected %v, returned %v", i, m.Name(), test.values, values)
		}
		if test.positions == nil {
			continue
		}
		if len(positions) != len(test.positions) {
			t.Errorf("[#%d] %s: positions error, expected %v, returned %v", i, m.Name(), test.positions, positions)
			continue
		}
		for j := range positions {
			if positions[j] != test.positions[j] {
				t.Errorf("[#%d] %s: positions error, expected %v, returned %v", i, m.Name(), test.positions, positions)
				break
			}
		}
	}
}

func TestMethodSpan(t *testing.T) {
	m := mustMethod(t, func(cfg *MethodConfig) { cfg.Method, cfg.K, cfg.WindowMin, cfg.WindowMax = "strobemer", 4, 1, 6 })
	// distance 4, window 3: 4+3 k-mers
	if m.Span() != 10 {
		t.Errorf("span error, expected 10, returned %d", m.Span())
	}

	m = mustMethod(t, func(cfg *MethodConfig) {
		cfg.Method, cfg.K, cfg.WindowMin, cfg.WindowMax, cfg.Order = "strobemer", 4, 1, 6, 3
	})
	if m.Span() != 16 {
		t.Errorf("span error, expected 16, returned %d", m.Span())
	}

	_, err := m.Sketch([]byte("ACGTACG"))
	if !isShortSeq(err) {
		t.Errorf("short sequence error expected, returned %v", err)
	}
}
