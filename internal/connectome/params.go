package connectome

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Param is one parsed measurement parameter: numeric entries (including
// expanded ranges) in Floats, everything else in Words.
type Param struct {
	Floats []float64
	Words  []string
}

// Float returns the single numeric value of a scalar parameter.
func (p Param) Float() (float64, bool) {
	if len(p.Floats) != 1 || len(p.Words) != 0 {
		return 0, false
	}
	return p.Floats[0], true
}

// Word returns the single string value of a scalar parameter.
func (p Param) Word() (string, bool) {
	if len(p.Words) != 1 || len(p.Floats) != 0 {
		return "", false
	}
	return p.Words[0], true
}

// Params holds the contents of a measurement parameter file.
type Params map[string]Param

// Flag reports whether a parameter is set to the numeric value 1.
func (ps Params) Flag(name string) bool {
	value, ok := ps[name].Float()
	return ok && value == 1
}

// ReadParams parses a measurement parameter file. Lines are
// `key=value[,value...]`; `#` comments and blank lines are skipped. A value
// is a number when it parses as one, a `(start;step;stop)` range expanding
// to start, start+step, ... < stop+start, otherwise a bare string.
func ReadParams(path string) (Params, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open measurement file: %w", err)
	}
	defer file.Close()

	params := Params{}
	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		label, rest, found := strings.Cut(line, "=")
		if !found {
			return nil, fmt.Errorf("%s:%d: missing '='", path, lineNo)
		}

		param := Param{}
		for _, field := range strings.Split(rest, ",") {
			trimmed := strings.TrimSpace(field)
			if value, err := strconv.ParseFloat(trimmed, 64); err == nil {
				param.Floats = append(param.Floats, value)
				continue
			}

			if strings.HasPrefix(trimmed, "(") {
				expanded, err := expandRange(trimmed)
				if err != nil {
					return nil, fmt.Errorf("%s:%d: %w", path, lineNo, err)
				}
				param.Floats = append(param.Floats, expanded...)
				continue
			}

			param.Words = append(param.Words, trimmed)
		}
		params[label] = param
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read measurement file: %w", err)
	}

	return params, nil
}

// expandRange expands a `(start;step;stop)` spec to the values
// start, start+step, ... strictly below stop+start.
func expandRange(spec string) ([]float64, error) {
	body := strings.TrimSuffix(strings.TrimPrefix(spec, "("), ")")
	parts := strings.Split(body, ";")
	if len(parts) != 3 {
		return nil, fmt.Errorf("range %q: want (start;step;stop)", spec)
	}

	bounds := make([]float64, 3)
	for i, part := range parts {
		value, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("range %q: %q is not a number", spec, part)
		}
		bounds[i] = value
	}

	start, step, stop := bounds[0], bounds[1], bounds[2]
	if step <= 0 {
		return nil, fmt.Errorf("range %q: step must be positive", spec)
	}

	var values []float64
	limit := stop + start
	for i := 0; ; i++ {
		value := start + float64(i)*step
		if value >= limit {
			break
		}
		values = append(values, value)
	}
	return values, nil
}
