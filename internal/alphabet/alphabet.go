// Package alphabet provides the symbol sets trials are drawn from.
package alphabet

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Default is the set used when nothing else is configured.
const Default = "alnum"

// Alnum is the ASCII alphanumeric set.
const Alnum = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

var named = map[string]string{
	"alnum":   Alnum,
	"letters": "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz",
	"lower":   "abcdefghijklmnopqrstuvwxyz",
	"upper":   "ABCDEFGHIJKLMNOPQRSTUVWXYZ",
	"digits":  "0123456789",
	"hex":     "0123456789ABCDEF",
}

// Names lists the built-in set names in sorted order.
func Names() []string {
	names := make([]string, 0, len(named))
	for name := range named {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Named returns the built-in set called name.
func Named(name string) ([]rune, error) {
	set, ok := named[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown alphabet %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return []rune(set), nil
}

// Load reads symbols from a file. Every non-space rune is a symbol; blank
// lines and lines starting with '#' are skipped, as are invalid UTF-8 bytes.
func Load(path string) ([]rune, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open alphabet: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only alphabet file.
			_ = cerr
		}
	}()

	var symbols []rune
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		for len(line) > 0 {
			r, size := utf8.DecodeRuneInString(line)
			line = line[size:]
			if r == utf8.RuneError && size == 1 {
				continue
			}
			if !unicode.IsSpace(r) {
				symbols = append(symbols, r)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read alphabet: %w", err)
	}
	symbols = Unique(symbols)
	if len(symbols) == 0 {
		return nil, fmt.Errorf("alphabet file is empty")
	}
	return symbols, nil
}

// Unique drops repeated symbols, keeping first occurrences in order.
func Unique(symbols []rune) []rune {
	seen := make(map[rune]struct{}, len(symbols))
	out := make([]rune, 0, len(symbols))
	for _, r := range symbols {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}
