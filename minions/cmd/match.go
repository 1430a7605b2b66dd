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
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/shenwei356/bio/seq"
	"github.com/shenwei356/bio/seqio/fastx"
	"github.com/shenwei356/breader"
	"github.com/spf13/cobra"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Count matched sketch values between two sequence files",
	Long: `Count matched sketch values between two sequence files

All sketch values of the reference file form a set, every sketch value of
the query file is a match if it exists in the set, or a miss if not.
Match coverage is the percentage of query bases covered by the windows of
matched values. Output:

    Matches: <N>\tMissed: <M>
    Match Coverage: <X>

With --pair-list, pairs of files (tab-delimited, "ref\tquery" per line)
are compared and a table is output:

    ref\tquery\tmatches\tmissed\tcoverage

`,
	Run: func(cmd *cobra.Command, args []string) {
		opt := getOptions(cmd)
		seq.ValidateSeq = false

		var fhLog *os.File
		if opt.Log2File {
			fhLog = addLog(opt.LogFile, opt.Verbose)
		}
		outputLog := opt.Verbose || opt.Log2File
		defer func() {
			if opt.Log2File {
				fhLog.Close()
			}
		}()

		method := getMethod(cmd)
		if method.BioSketches {
			checkError(fmt.Errorf("flag --bio-sketches is not supported in this command"))
		}
		outFile := getFlagString(cmd, "out-file")
		pairList := getFlagString(cmd, "pair-list")

		if outputLog {
			method.logParameters()
		}

		outfh, gw, w, err := outStream(outFile, false, -1)
		checkError(err)
		defer closeOutStream(outfh, gw, w)

		if pairList == "" {
			if len(args) != 2 {
				checkError(fmt.Errorf("two sequence files (reference and query) are needed"))
			}
			r, err := matchFiles(method, args[0], args[1])
			checkError(err)
			fmt.Fprintf(outfh, "Matches: %d\tMissed: %d\n", r.Matches, r.Missed)
			fmt.Fprintf(outfh, "Match Coverage: %s\n", formatFloat(r.Coverage()))
			return
		}

		pairs, err := readPairs(expandPath(pairList), opt.NumCPUs)
		checkError(err)
		if outputLog {
			log.Infof("%d pairs of files given", len(pairs))
		}

		results := make([]MatchResult, len(pairs))
		ids := make([]string, len(pairs))
		for i, p := range pairs {
			ids[i] = p[0] + "\t" + p[1]
		}
		processFiles(opt, ids, "processed pairs: ", func(i int, _ string) {
			r, err := matchFiles(method, pairs[i][0], pairs[i][1])
			checkError(err)
			results[i] = r
		})

		fmt.Fprintf(outfh, "ref\tquery\tmatches\tmissed\tcoverage\n")
		for i, r := range results {
			fmt.Fprintf(outfh, "%s\t%s\t%d\t%d\t%s\n", pairs[i][0], pairs[i][1],
				r.Matches, r.Missed, formatFloat(r.Coverage()))
		}
	},
}

// MatchResult is the result of comparing a query with a reference.
type MatchResult struct {
	Matches uint64
	Missed  uint64

	Covered int // query bases covered by matched values
	Bases   int // query bases
}

// Coverage returns the percentage of covered query bases.
func (r MatchResult) Coverage() float64 {
	if r.Bases == 0 {
		return 0
	}
	return float64(r.Covered) / float64(r.Bases) * 100
}

func matchFiles(method *Method, refFile, queryFile string) (MatchResult, error) {
	var r MatchResult

	ref := make(map[uint64]struct{}, mapInitSize)
	values := make([]uint64, 0, 1024)
	err := eachRecord(refFile, func(record *fastx.Record) error {
		var err error
		values, err = method.AppendValues(record.Seq, values[:0])
		if err != nil {
			if isShortSeq(err) {
				return nil
			}
			return err
		}
		for _, v := range values {
			ref[v] = struct{}{}
		}
		return nil
	})
	if err != nil {
		return r, err
	}

	err = eachRecord(queryFile, func(record *fastx.Record) error {
		r.Bases += len(record.Seq.Seq)
		covered, err := matchSeq(method, ref, record.Seq.Seq, &r)
		if err != nil {
			if isShortSeq(err) {
				return nil
			}
			return err
		}
		r.Covered += covered
		return nil
	})
	return r, err
}

// matchSeq counts matched values of a sequence and returns the number of
// bases covered by them.
func matchSeq(method *Method, ref map[uint64]struct{}, s []byte, r *MatchResult) (int, error) {
	sk, err := method.Sketch(s)
	if err != nil {
		return 0, err
	}
	c := newCoverage(method.Span(), len(s))

	var v uint64
	var ok bool
	for {
		v, ok = sk.Next()
		if !ok {
			break
		}
		if _, ok = ref[v]; !ok {
			r.Missed++
			continue
		}
		r.Matches++
		c.Add(sk.Index())
	}
	return c.Covered(), nil
}

// coverage counts bases covered by windows of increasing positions.
type coverage struct {
	span    int
	len     int
	end     int // end of the covered region
	covered int
}

func newCoverage(span, length int) *coverage {
	return &coverage{span: span, len: length}
}

// Add adds a window starting at p, p should not be smaller than previous ones.
func (c *coverage) Add(p int) {
	e := p + c.span
	if e > c.len {
		e = c.len
	}
	if p < c.end {
		p = c.end
	}
	if e > p {
		c.covered += e - p
		c.end = e
	}
}

// Covered returns the number of covered bases.
func (c *coverage) Covered() int { return c.covered }

// readPairs reads pairs of files, one tab-delimited pair per line.
func readPairs(file string, threads int) ([][2]string, error) {
	fn := func(line string) (interface{}, bool, error) {
		line = strings.TrimRight(line, "\r\n")
		if line == "" || line[0] == '#' { // ignoring blank line and comment line
			return nil, false, nil
		}
		items := strings.Split(line, "\t")
		if len(items) < 2 {
			return nil, false, fmt.Errorf("two tab-delimited columns are needed: %s", line)
		}
		return [2]string{items[0], items[1]}, true, nil
	}

	reader, err := breader.NewBufferedReader(file, threads, 100, fn)
	if err != nil {
		return nil, errors.Wrap(err, file)
	}

	pairs := make([][2]string, 0, 8)
	var data interface{}
	for chunk := range reader.Ch {
		if chunk.Err != nil {
			return nil, errors.Wrap(chunk.Err, file)
		}
		for _, data = range chunk.Data {
			pairs = append(pairs, data.([2]string))
		}
	}
	return pairs, nil
}

func init() {
	RootCmd.AddCommand(matchCmd)

	addMethodFlags(matchCmd)
	matchCmd.Flags().StringP("out-file", "o", "-", `out file ("-" for stdout)`)
	matchCmd.Flags().StringP("pair-list", "P", "", `file of tab-delimited pairs of reference and query files`)

	matchCmd.SetUsageTemplate(usageTemplate("[flags] { <ref seq file> <query seq file> | -P <pair list> }"))
}
