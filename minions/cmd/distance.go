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

	"github.com/pkg/errors"
	"github.com/shenwei356/bio/seq"
	"github.com/shenwei356/bio/seqio/fastx"
	"github.com/shenwei356/util/stats"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var distanceCmd = &cobra.Command{
	Use:   "distance",
	Short: "Distances between consecutive selected k-mers",
	Long: `Distances between consecutive selected k-mers

For minimiser, modmer, syncmer and opensyncmer, the number of k-mers
skipped between two consecutively selected k-mers is computed for all
sequences of a file. Output:

    Distances: <min>\t<mean>\t<stdev>\t<max>

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
		switch method.Kind {
		case KindMinimiser, KindModmer, KindSyncmer, KindOpenSyncmer:
		default:
			checkError(fmt.Errorf("distances are only available for minimiser, modmer, syncmer and opensyncmer"))
		}
		if method.BioSketches {
			checkError(fmt.Errorf("flag --bio-sketches is not supported in this command"))
		}

		outFile := getFlagString(cmd, "out-file")
		plotFile := getFlagString(cmd, "plot")
		bins := getFlagPositiveInt(cmd, "bins")
		quantiles := getFlagBool(cmd, "quantiles")

		files := getFileListFromArgsAndFile(cmd, args, true, "infile-list", true)
		if len(files) != 1 {
			checkError(fmt.Errorf("exactly one sequence file is needed"))
		}
		file := files[0]
		if outputLog {
			method.logParameters()
		}

		distances, err := fileDistances(method, file)
		checkError(err)
		if len(distances) == 0 {
			checkError(fmt.Errorf("no distances computed from %s, sequences might be too short", file))
		}
		if outputLog {
			log.Infof("%d distances computed", len(distances))
		}

		outfh, gw, w, err := outStream(outFile, false, -1)
		checkError(err)
		defer closeOutStream(outfh, gw, w)

		fmt.Fprintln(outfh, distanceLine(distances))

		if quantiles {
			q := stats.NewQuantiler()
			for _, d := range distances {
				q.Add(d)
			}
			fmt.Fprintf(outfh, "Quantiles: %s\t%s\t%s\n",
				formatFloat(q.Percentile(25)), formatFloat(q.Percentile(50)), formatFloat(q.Percentile(75)))
		}

		if plotFile != "" {
			checkError(plotDistances(distances, bins, method.Name(), expandPath(plotFile)))
			if outputLog {
				log.Infof("histogram saved to %s", plotFile)
			}
		}
	},
}

// fileDistances returns distances of all sequences in a file.
func fileDistances(method *Method, file string) ([]float64, error) {
	distances := make([]float64, 0, 1024)
	err := eachRecord(file, func(record *fastx.Record) error {
		iter, err := method.Distance(record.Seq.Seq)
		if err != nil {
			if isShortSeq(err) {
				return nil
			}
			return err
		}
		var v uint64
		var ok bool
		for {
			v, ok = iter.Next()
			if !ok {
				break
			}
			distances = append(distances, float64(v))
		}
		return nil
	})
	return distances, err
}

func distanceLine(distances []float64) string {
	mean, std := stat.PopMeanStdDev(distances, nil)
	return fmt.Sprintf("Distances: %s\t%s\t%s\t%s",
		formatFloat(floats.Min(distances)), formatFloat(mean),
		formatFloat(std), formatFloat(floats.Max(distances)))
}

// plotDistances saves a histogram, the format is decided by the file extension.
func plotDistances(distances []float64, bins int, title string, file string) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "distance"
	p.Y.Label.Text = "frequency"

	h, err := plotter.NewHist(plotter.Values(distances), bins)
	if err != nil {
		return errors.Wrap(err, "plot histogram")
	}
	p.Add(h)

	if err = p.Save(6*vg.Inch, 4*vg.Inch, file); err != nil {
		return errors.Wrapf(err, "save plot to %s", file)
	}
	return nil
}

func init() {
	RootCmd.AddCommand(distanceCmd)

	addMethodFlags(distanceCmd)
	distanceCmd.Flags().StringP("out-file", "o", "-", `out file ("-" for stdout)`)
	distanceCmd.Flags().StringP("plot", "", "", `save a histogram of distances to a file (.png, .pdf, .svg ...)`)
	distanceCmd.Flags().IntP("bins", "", 50, `number of bins of the histogram`)
	distanceCmd.Flags().BoolP("quantiles", "", false, `also output the 25th, 50th and 75th percentiles`)

	distanceCmd.SetUsageTemplate(usageTemplate("[flags] <seq file>"))
}
