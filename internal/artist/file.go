package artist

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// ReadList reads one artist per line. Blank lines and lines starting with #
// are skipped.
func ReadList(r io.Reader) ([]string, error) {
	var names []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading artist list: %w", err)
	}
	return names, nil
}

// LoadFile reads an artist list from path
func LoadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening artist list: %w", err)
	}
	defer f.Close() // nolint:errcheck

	return ReadList(f)
}
