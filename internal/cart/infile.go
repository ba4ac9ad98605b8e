package cart

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

// Key is a custom type used as the keys in the Input map
type Key int

// Keys for Input map
const (
	WorkersKey Key = iota
	DLevelKey
	DeltaKey
	MethodKey
	ChargeKey
	SpinKey
	AccuracyKey
	MaxIterKey
	TemperatureKey
	VerbosityKey
	UnitsKey
	GeomKey
	LatticeKey
	NumKeys
)

func (k Key) String() string {
	return [...]string{
		"WorkersKey",
		"DLevelKey",
		"DeltaKey",
		"MethodKey",
		"ChargeKey",
		"SpinKey",
		"AccuracyKey",
		"MaxIterKey",
		"TemperatureKey",
		"VerbosityKey",
		"UnitsKey",
		"GeomKey",
		"LatticeKey",
	}[k]
}

// Regexp consists of an embedded *regexp.Regexp and an associated Key
type Regexp struct {
	*regexp.Regexp
	Name Key
}

var (
	keywords = []Regexp{
		{regexp.MustCompile(`(?i)^\s*(concjobs|workers)\s*=`), WorkersKey},
		{regexp.MustCompile(`(?i)^\s*derivative\s*=`), DLevelKey},
		{regexp.MustCompile(`(?i)^\s*delta\s*=`), DeltaKey},
		{regexp.MustCompile(`(?i)^\s*method\s*=`), MethodKey},
		{regexp.MustCompile(`(?i)^\s*charge\s*=`), ChargeKey},
		{regexp.MustCompile(`(?i)^\s*(spin|uhf)\s*=`), SpinKey},
		{regexp.MustCompile(`(?i)^\s*accuracy\s*=`), AccuracyKey},
		{regexp.MustCompile(`(?i)^\s*maxiter\s*=`), MaxIterKey},
		{regexp.MustCompile(`(?i)^\s*etemp\s*=`), TemperatureKey},
		{regexp.MustCompile(`(?i)^\s*verbosity\s*=`), VerbosityKey},
		{regexp.MustCompile(`(?i)^\s*units\s*=`), UnitsKey},
	}
	blocks = []Regexp{
		{regexp.MustCompile(`(?i)^\s*geometry\s*=\s*{`), GeomKey},
		{regexp.MustCompile(`(?i)^\s*lattice\s*=\s*{`), LatticeKey},
	}
)

// ParseInfile parses the keyword input in r and loads matching keywords
// into the returned map. Keyword values are upper-cased; the contents of
// geometry and lattice blocks are kept verbatim, one line per entry.
func ParseInfile(r io.Reader) (map[Key]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	keymap := map[Key]string{}
outer:
	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if len(line) < 1 || line[0] == '#' {
			continue
		}
		for _, block := range blocks {
			if !block.MatchString(line) {
				continue
			}
			open := lines[i][strings.Index(lines[i], "{")+1:]
			if j := strings.Index(open, "}"); j >= 0 {
				keymap[block.Name] = strings.TrimSpace(open[:j])
				continue outer
			}
			end := i + 1
			for end < len(lines) && !strings.Contains(lines[end], "}") {
				end++
			}
			if end == len(lines) {
				return nil, fmt.Errorf("line %d: unterminated %s block", i+1, block.Name)
			}
			var body []string
			if s := strings.TrimSpace(open); s != "" {
				body = append(body, s)
			}
			body = append(body, lines[i+1:end]...)
			last := lines[end]
			if s := strings.TrimSpace(last[:strings.Index(last, "}")]); s != "" {
				body = append(body, s)
			}
			keymap[block.Name] = strings.Join(body, "\n")
			i = end
			continue outer
		}
		for _, kword := range keywords {
			if kword.MatchString(line) {
				split := strings.Split(line, "=")
				keymap[kword.Name] = strings.ToUpper(strings.TrimSpace(split[len(split)-1]))
			}
		}
	}
	return keymap, nil
}

// ParseInfileFile is ParseInfile on the named file.
func ParseInfileFile(filename string) (map[Key]string, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseInfile(f)
}
