package loader

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// LoadSymbolFile reads a sidecar symbol table file and returns it as a
// name->address map, for a debugger/disassembler to consume.
func LoadSymbolFile(path string) (map[string]uint16, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loader: open %s: %w", path, err)
	}
	defer f.Close()
	return LoadSymbols(f)
}

// LoadSymbols parses whitespace-delimited `name value` pairs, one per line.
// Values accept 0x-prefixed hex or plain decimal. Blank lines and
// #-prefixed comment lines are skipped.
func LoadSymbols(r io.Reader) (map[string]uint16, error) {
	symbols := make(map[string]uint16)
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("loader: symbol file line %d: expected 2 fields, got %d: %q", lineNum, len(fields), line)
		}
		value, err := parseAddress(fields[1])
		if err != nil {
			return nil, fmt.Errorf("loader: symbol file line %d: %w", lineNum, err)
		}
		symbols[fields[0]] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("loader: read symbol file: %w", err)
	}
	return symbols, nil
}

func parseAddress(s string) (uint16, error) {
	base := 10
	trimmed := s
	if strings.HasPrefix(strings.ToLower(s), "0x") {
		base = 16
		trimmed = s[2:]
	}
	v, err := strconv.ParseUint(trimmed, base, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid address %q: %w", s, err)
	}
	return uint16(v), nil
}
