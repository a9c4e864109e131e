package wallets

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/bimakw/dex-volume-checker/internal/domain/entities"
)

// maxLineBytes bounds one input line, about 90k comma-separated addresses
const maxLineBytes = 4 << 20

// IsValidAddress reports whether s is a 0x-prefixed 20-byte hex address
func IsValidAddress(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(strings.ToLower(s), "0x") && common.IsHexAddress(s)
}

// LoadFile reads a wallet list from disk
func LoadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open wallets file: %w", err)
	}
	defer f.Close()

	addrs, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return addrs, nil
}

// Parse reads addresses separated by newlines or commas. Blank lines and
// '#' comments are skipped. Results are lowercased and deduplicated in first-seen order.
func Parse(r io.Reader) ([]string, error) {
	set := entities.NewAddressSet()

	scanner := bufio.NewScanner(r)
	// a single comma-separated line can hold thousands of addresses
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if idx := strings.Index(line, "#"); idx >= 0 {
			line = line[:idx]
		}

		for _, field := range strings.Split(line, ",") {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			if !IsValidAddress(field) {
				return nil, fmt.Errorf("line %d: invalid address %q", lineNo, field)
			}
			set.Add(field)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read wallets: %w", err)
	}

	return set.Slice(), nil
}

// ParseList splits a comma-separated list, validating each address
func ParseList(list string) ([]string, error) {
	return Parse(strings.NewReader(list))
}
