package clix

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/pflag"
)

// ParseConcurrency reads --concurrency, defaulting to the number of CPUs.
func ParseConcurrency(flags *pflag.FlagSet) (int, error) {
	n, _ := flags.GetInt("concurrency")
	if n < 0 {
		return 0, fmt.Errorf("--concurrency must not be negative, got %d", n)
	}
	if n == 0 {
		n = runtime.NumCPU()
	}
	return n, nil
}

// ParseURLs collects URLs from positional args followed by the lines of
// --file ("-" reads stdin). Blank lines and lines starting with '#' are skipped.
func ParseURLs(flags *pflag.FlagSet, args []string, stdin io.Reader) ([]string, error) {
	urls := append([]string(nil), args...)

	path, _ := flags.GetString("file")
	if path != "" {
		var r io.Reader = stdin
		if path != "-" {
			f, err := os.Open(path)
			if err != nil {
				return nil, fmt.Errorf("open url file: %w", err)
			}
			defer f.Close()
			r = f
		}
		lines, err := readLines(r)
		if err != nil {
			return nil, fmt.Errorf("read url file %s: %w", path, err)
		}
		urls = append(urls, lines...)
	}

	if len(urls) == 0 {
		return nil, fmt.Errorf("no URLs given: pass them as arguments or with --file")
	}
	return urls, nil
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	return lines, scanner.Err()
}
