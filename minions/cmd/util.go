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
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/iafan/cwalk"
	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/shenwei356/go-logging"
	"github.com/shenwei356/util/pathutil"
	"github.com/spf13/cobra"
	"github.com/twotwotwo/sorts"
)

var mapInitSize = 1 << 16

// Options contains the global flags
type Options struct {
	NumCPUs int
	Verbose bool

	LogFile  string
	Log2File bool

	Compress         bool
	CompressionLevel int
}

func getOptions(cmd *cobra.Command) *Options {
	threads := getFlagNonNegativeInt(cmd, "threads")
	if threads == 0 {
		threads = runtime.NumCPU()
	}

	sorts.MaxProcs = threads
	runtime.GOMAXPROCS(threads)

	logfile := getFlagString(cmd, "log")
	if logfile != "" {
		logfile = expandPath(logfile)
	}
	return &Options{
		NumCPUs: threads,
		Verbose: !getFlagBool(cmd, "quiet"),

		LogFile:  logfile,
		Log2File: logfile != "",

		Compress:         true,
		CompressionLevel: -1,
	}
}

// addLog also writes logs to a file.
func addLog(file string, verbose bool) *os.File {
	w, err := os.Create(file)
	if err != nil {
		checkError(fmt.Errorf("failed to write log file %s: %s", file, err))
	}

	formatter := logging.MustStringFormatter(`%{time:15:04:05.000} [%{level:.4s}] %{message}`)
	fileBackend := logging.NewBackendFormatter(logging.NewLogBackend(w, "", 0), formatter)
	if verbose {
		var stderr logging.Backend = logging.NewLogBackend(os.Stderr, "", 0)
		stderr = logging.NewBackendFormatter(stderr, formatter)
		logging.SetBackend(stderr, fileBackend)
	} else {
		logging.SetBackend(fileBackend)
	}
	return w
}

// expandPath expands "~" in a path.
func expandPath(file string) string {
	_file, err := homedir.Expand(file)
	checkError(errors.Wrap(err, file))
	return _file
}

func makeOutDir(outDir string, force bool, logname string, verbose bool) {
	pwd, _ := os.Getwd()
	if outDir != "./" && outDir != "." && pwd != filepath.Clean(outDir) {
		existed, err := pathutil.DirExists(outDir)
		checkError(errors.Wrap(err, outDir))
		if existed {
			empty, err := pathutil.IsEmpty(outDir)
			checkError(errors.Wrap(err, outDir))
			if !empty {
				if force {
					if verbose {
						log.Infof("removing old output directory: %s", outDir)
					}
					checkError(os.RemoveAll(outDir))
				} else {
					checkError(fmt.Errorf("%s not empty: %s, use --force to overwrite", logname, outDir))
				}
			} else {
				checkError(os.RemoveAll(outDir))
			}
		}
		checkError(os.MkdirAll(outDir, 0777))
	}
}

func getFileListFromDir(path string, pattern *regexp.Regexp, threads int) ([]string, error) {
	files := make([]string, 0, 512)
	ch := make(chan string, threads)
	done := make(chan int)
	go func() {
		for file := range ch {
			files = append(files, file)
		}
		done <- 1
	}()

	cwalk.NumWorkers = threads
	err := cwalk.WalkWithSymlinks(path, func(_path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && pattern.MatchString(info.Name()) {
			ch <- filepath.Join(path, _path)
		}
		return nil
	})
	close(ch)
	<-done
	if err != nil {
		return nil, err
	}

	return files, err
}

// getInputFiles collects sequence files from positional arguments,
// the file list and an optional input directory.
func getInputFiles(cmd *cobra.Command, args []string, opt *Options) []string {
	inDir := getFlagString(cmd, "in-dir")
	if inDir == "" {
		return getFileListFromArgsAndFile(cmd, args, true, "infile-list", true)
	}

	inDir = expandPath(inDir)
	reFileStr := getFlagString(cmd, "file-regexp")
	reFile, err := regexp.Compile("(?i)" + reFileStr)
	if err != nil {
		checkError(errors.Errorf("failed to parse regular expression for matching file: %s", reFileStr))
	}
	isDir, err := pathutil.DirExists(inDir)
	if err != nil {
		checkError(errors.Wrapf(err, "checking -I/--in-dir"))
	}
	if !isDir {
		checkError(fmt.Errorf("value of -I/--in-dir should be a directory: %s", inDir))
	}

	files, err := getFileListFromDir(inDir, reFile, opt.NumCPUs)
	if err != nil {
		checkError(errors.Wrapf(err, "walking dir: %s", inDir))
	}
	if len(files) == 0 {
		log.Warningf("  no files matching regular expression: %s", reFileStr)
	}
	return append(files, getFileListFromArgsAndFile(cmd, args, true, "infile-list", true)...)
}

// filepathTrimExtension trims sequence file extensions, including the
// gzip suffix, e.g., "a/b.fa.gz" -> ("a/b", ".fa.gz").
func filepathTrimExtension(file string) (string, string) {
	var gz string
	if strings.HasSuffix(file, ".gz") || strings.HasSuffix(file, ".GZ") {
		gz = file[len(file)-3:]
		file = file[0 : len(file)-3]
	}

	var extension string
	lower := strings.ToLower(file)
	if strings.HasSuffix(lower, ".fasta") || strings.HasSuffix(lower, ".fastq") {
		extension = file[len(file)-6:]
	} else {
		extension = filepath.Ext(file)
	}
	return file[0 : len(file)-len(extension)], extension + gz
}

// outputStems returns file stems used in output file names, "stdin" for
// the standard input. Files sharing a stem would overwrite each other.
func outputStems(files []string) ([]string, error) {
	stems := make([]string, len(files))
	seen := make(map[string]string, len(files))
	for i, file := range files {
		if isStdin(file) {
			stems[i] = "stdin"
		} else {
			stems[i] = fileStem(file)
		}
		if prev, ok := seen[stems[i]]; ok {
			return nil, fmt.Errorf("input files with the same name: %s, %s", prev, file)
		}
		seen[stems[i]] = file
	}
	return stems, nil
}

// fileStem returns the base name of a file without sequence extensions.
func fileStem(file string) string {
	name, _ := filepathTrimExtension(filepath.Base(file))
	return name
}
