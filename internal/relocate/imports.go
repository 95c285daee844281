package relocate

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Imports is a name→value table resolving `.o65` external references,
// built from a text file of `name value` pairs (one per line, `#`
// comments, blank lines tolerated) the way the teacher's own test
// fixtures are hand-parsed line by line.
type Imports map[string]uint32

// ParseImports reads an imports list. Values accept C-style 0x/0/decimal
// notation.
func ParseImports(r io.Reader) (Imports, error) {
	imports := make(Imports)
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("imports list line %d: expected \"name value\", got %q", lineNo, line)
		}
		value, err := strconv.ParseUint(fields[1], 0, 32)
		if err != nil {
			return nil, fmt.Errorf("imports list line %d: invalid value %q: %w", lineNo, fields[1], err)
		}
		imports[fields[0]] = uint32(value)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading imports list: %w", err)
	}
	return imports, nil
}
