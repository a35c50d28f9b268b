package analysis

import (
	"fmt"
	"strings"
)

// Detector enriches call findings with pattern-specific information. It may
// modify existing findings or add new ones.
type Detector interface {
	Detect(findings []CallFinding) []CallFinding
}

// DetectorChain runs multiple detectors in sequence
type DetectorChain struct {
	detectors []Detector
}

func NewDetectorChain(detectors ...Detector) *DetectorChain {
	return &DetectorChain{
		detectors: detectors,
	}
}

// DefaultDetectors is the chain the dump command runs.
func DefaultDetectors() *DetectorChain {
	return NewDetectorChain(FormatStringDetector{})
}

func (dc *DetectorChain) Detect(findings []CallFinding) []CallFinding {
	result := findings
	for _, detector := range dc.detectors {
		result = detector.Detect(result)
	}
	return result
}

// formatArg maps printf-family functions to the index of their format
// argument.
var formatArg = map[string]int{
	"printf":              0,
	"vprintf":             0,
	"fprintf":             1,
	"dprintf":             1,
	"sprintf":             1,
	"vsprintf":            1,
	"snprintf":            2,
	"vsnprintf":           2,
	"syslog":              1,
	"__android_log_print": 2,
}

// FormatStringDetector finds printf-style calls whose format string was
// traced and records how many arguments the format consumes.
type FormatStringDetector struct{}

func (FormatStringDetector) Detect(findings []CallFinding) []CallFinding {
	for i := range findings {
		f := &findings[i]
		name := strings.TrimSuffix(f.Target, "@plt")
		idx, ok := formatArg[name]
		if !ok {
			continue
		}
		for _, a := range f.Args {
			if int(a.Reg) != idx {
				continue
			}
			format, ok := a.Value.(string)
			if !ok {
				break
			}
			n := countDirectives(format)
			f.Metadata["format"] = format
			f.Metadata["format_args"] = n
			f.Comment += fmt.Sprintf(" [format takes %d args]", n)
		}
	}
	return findings
}

// countDirectives counts the arguments a printf format consumes, including
// '*' widths and precisions.
func countDirectives(format string) int {
	n := 0
	for i := 0; i < len(format); i++ {
		if format[i] != '%' {
			continue
		}
		i++
		if i < len(format) && format[i] == '%' {
			continue
		}
		for ; i < len(format); i++ {
			c := format[i]
			if c == '*' {
				n++
				continue
			}
			if strings.IndexByte("diouxXeEfFgGaAcspn", c) >= 0 {
				n++
				break
			}
		}
	}
	return n
}
