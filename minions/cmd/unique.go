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

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/shenwei356/minions/minions/cmd/dump"
	"github.com/spf13/cobra"
	"github.com/tatsushid/go-prettytable"
)

var uniqueCmd = &cobra.Command{
	Use:   "unique",
	Short: "Uniqueness of sketch values in dump files",
	Long: `Uniqueness of sketch values in dump files

For every dump file produced by "minions counts", the number of distinct
values, the number of values occurring only once, and the fraction of
them are reported. For multiple files, counts of all files are also
merged and reported as "all".

Output columns:

    file\tdistinct\tunique\tfraction

`,
	Run: func(cmd *cobra.Command, args []string) {
		opt := getOptions(cmd)

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

		outFile := getFlagString(cmd, "out-file")
		pretty := getFlagBool(cmd, "pretty")

		files := getFileListFromArgsAndFile(cmd, args, true, "infile-list", true)
		for _, file := range files {
			if isStdin(file) {
				checkError(fmt.Errorf("stdin is not supported, please give dump files"))
			}
		}
		if outputLog {
			log.Infof("%d dump file(s) given", len(files))
		}

		infos := make([]uniqueInfo, len(files))
		counters := make([]*dump.Counter, len(files))
		processFiles(opt, files, "processed files: ", func(i int, file string) {
			records, err := dump.ReadFile(file)
			checkError(errors.Wrap(err, file))

			counter := dump.NewCounter(len(records))
			for _, r := range records {
				counter.AddN(r.Hash, r.Count)
			}
			counters[i] = counter
			infos[i] = newUniqueInfo(file, counter)
		})

		if len(files) > 1 {
			all := dump.NewCounter(mapInitSize)
			for _, c := range counters {
				all.Merge(c)
			}
			infos = append(infos, newUniqueInfo("all", all))
		}

		outfh, gw, w, err := outStream(outFile, false, -1)
		checkError(err)
		defer closeOutStream(outfh, gw, w)

		if !pretty {
			fmt.Fprintf(outfh, "file\tdistinct\tunique\tfraction\n")
			for _, info := range infos {
				fmt.Fprintf(outfh, "%s\t%d\t%d\t%s\n", info.file, info.distinct, info.unique, formatFloat(info.Fraction()))
			}
			return
		}

		tbl, err := prettytable.NewTable([]prettytable.Column{
			{Header: "file"},
			{Header: "distinct", AlignRight: true},
			{Header: "unique", AlignRight: true},
			{Header: "fraction", AlignRight: true},
		}...)
		checkError(err)
		tbl.Separator = "  "
		for _, info := range infos {
			tbl.AddRow(
				info.file,
				humanize.Comma(int64(info.distinct)),
				humanize.Comma(int64(info.unique)),
				formatFloat(info.Fraction()),
			)
		}
		outfh.Write(tbl.Bytes())
	},
}

type uniqueInfo struct {
	file     string
	distinct int
	unique   int // values with a count of 1
}

func newUniqueInfo(file string, c *dump.Counter) uniqueInfo {
	info := uniqueInfo{file: file, distinct: c.Len()}
	for _, h := range c.Hashes() {
		if c.Count(h) == 1 {
			info.unique++
		}
	}
	return info
}

// Fraction returns the fraction of unique values.
func (info uniqueInfo) Fraction() float64 {
	if info.distinct == 0 {
		return 0
	}
	return float64(info.unique) / float64(info.distinct)
}

func init() {
	RootCmd.AddCommand(uniqueCmd)

	uniqueCmd.Flags().StringP("out-file", "o", "-", `out file ("-" for stdout)`)
	uniqueCmd.Flags().BoolP("pretty", "", false, `output a human-readable table`)

	uniqueCmd.SetUsageTemplate(usageTemplate("[flags] <dump files>"))
}
