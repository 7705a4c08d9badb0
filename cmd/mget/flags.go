package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mget-project/mget/pkg/mgetlib"
)

// parseBlockSize parses a size like "4m", "512k", or a bare byte count,
// returning the value in bytes.
func parseBlockSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return mgetlib.DefaultBlockSize, nil
	}
	mult := int64(1)
	digits := s
	switch strings.ToLower(s[len(s)-1:]) {
	case "k":
		mult = mgetlib.KB
		digits = s[:len(s)-1]
	case "m":
		mult = mgetlib.MB
		digits = s[:len(s)-1]
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid block size %q", s)
	}
	if n <= 0 {
		return 0, fmt.Errorf("block size must be positive, got %q", s)
	}
	return n * mult, nil
}

// readURLsFile reads one mirror URL per line, ignoring blank lines and
// lines starting with '#'.
func readURLsFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("urls-file: %w", err)
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("urls-file: %w", err)
	}
	return urls, nil
}
