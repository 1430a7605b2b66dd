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
	"strconv"
	"time"

	"github.com/shenwei356/bio/seq"
	"github.com/shenwei356/bio/seqio/fastx"
	"github.com/shenwei356/minions/minions/cmd/dump"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var speedCmd = &cobra.Command{
	Use:   "speed",
	Short: "Time the sketching of sequence files",
	Long: `Time the sketching of sequence files

Every file is read, sketched and counted on one thread, the time (in
microseconds) is measured for each file (and each repeat). Output:

    <method>\t<min>\t<mean>\t<stdev>\t<max>

where stdev is the population standard deviation.

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
		repeats := getFlagPositiveInt(cmd, "repeats")
		outFile := getFlagString(cmd, "out-file")

		files := getInputFiles(cmd, args, opt)
		if outputLog {
			log.Infof("%d input file(s) given", len(files))
			method.logParameters()
		}

		durations := make([]float64, 0, len(files)*repeats)
		for _, file := range files {
			for r := 0; r < repeats; r++ {
				d, err := timeFile(method, file)
				checkError(err)
				durations = append(durations, float64(d.Microseconds()))
				if outputLog {
					log.Infof("%s (%d/%d): %s", file, r+1, repeats, d)
				}
			}
		}

		outfh, gw, w, err := outStream(outFile, false, -1)
		checkError(err)
		defer closeOutStream(outfh, gw, w)

		fmt.Fprintln(outfh, speedLine(method.Name(), durations))
	},
}

// speedLine formats the minimum, mean, population standard deviation and
// maximum of durations.
func speedLine(name string, durations []float64) string {
	if len(durations) == 0 {
		return fmt.Sprintf("%s\t0\t0\t0\t0", name)
	}
	mean, std := stat.PopMeanStdDev(durations, nil)
	return fmt.Sprintf("%s\t%s\t%s\t%s\t%s", name,
		formatFloat(floats.Min(durations)), formatFloat(mean),
		formatFloat(std), formatFloat(floats.Max(durations)))
}

// formatFloat formats numbers with six significant digits.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

// timeFile reads and sketches a file, values are counted in a hash table.
func timeFile(method *Method, file string) (time.Duration, error) {
	counter := dump.NewCounter(mapInitSize)
	values := make([]uint64, 0, 1024)

	start := time.Now()
	err := eachRecord(file, func(record *fastx.Record) error {
		var err error
		values, err = method.AppendValues(record.Seq, values[:0])
		if err != nil {
			if isShortSeq(err) {
				return nil
			}
			return err
		}
		for _, v := range values {
			counter.Add(v)
		}
		return nil
	})
	return time.Since(start), err
}

func init() {
	RootCmd.AddCommand(speedCmd)

	addMethodFlags(speedCmd)
	speedCmd.Flags().StringP("in-dir", "I", "", `directory containing sequence files`)
	speedCmd.Flags().StringP("file-regexp", "r", `\.(f[aq]|fast[aq]|fna)(\.gz)?$`, `regular expression for matching sequence files in -I/--in-dir, case ignored`)
	speedCmd.Flags().IntP("repeats", "R", 1, `times of sketching every file`)
	speedCmd.Flags().StringP("out-file", "o", "-", `out file ("-" for stdout)`)

	speedCmd.SetUsageTemplate(usageTemplate("[flags] {[-I <seqs dir>] | <seq files> | -i <file list>}"))
}
