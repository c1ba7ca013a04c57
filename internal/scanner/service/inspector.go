// Package service holds the scanner's content inspector and object sources.
package service

import (
	"regexp"
	"sort"
	"strings"

	scannerDomain "github.com/allisson/tokenvault/internal/scanner/domain"
)

// Match is a detected value and its byte range in the inspected text.
type Match struct {
	InfoType scannerDomain.InfoType
	Value    string
	Start    int
	End      int
}

// Detector recognises one info type with a pattern and an optional validator.
type Detector struct {
	InfoType scannerDomain.InfoType
	Pattern  *regexp.Regexp
	Validate func(value string) bool
}

var (
	creditCardPattern = regexp.MustCompile(`\b\d(?:[ -]?\d){12,18}\b`)
	ssnPattern        = regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)
	phonePattern      = regexp.MustCompile(`(?:\+\d{1,3}[ .-]?)?(?:\(\d{3}\)[ .-]?|\b\d{3}[ .-])\d{3}[ .-]\d{4}\b`)
	emailPattern      = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
)

// DefaultDetectors returns the built-in detectors in precedence order. A later detector
// never reports a range an earlier one already claimed.
func DefaultDetectors() []Detector {
	return []Detector{
		{InfoType: scannerDomain.InfoTypeCreditCard, Pattern: creditCardPattern, Validate: ValidCardNumber},
		{InfoType: scannerDomain.InfoTypeUSSSN, Pattern: ssnPattern, Validate: validSSN},
		{InfoType: scannerDomain.InfoTypePhoneNumber, Pattern: phonePattern},
		{InfoType: scannerDomain.InfoTypeEmailAddress, Pattern: emailPattern},
	}
}

// Inspector finds sensitive values in text.
type Inspector struct {
	detectors []Detector
}

// NewInspector creates an Inspector. With no detectors it uses DefaultDetectors.
func NewInspector(detectors ...Detector) *Inspector {
	if len(detectors) == 0 {
		detectors = DefaultDetectors()
	}
	return &Inspector{detectors: detectors}
}

// Inspect returns the matches in data ordered by position.
func (i *Inspector) Inspect(data []byte) []Match {
	text := string(data)
	var matches []Match

	for _, detector := range i.detectors {
		for _, loc := range detector.Pattern.FindAllStringIndex(text, -1) {
			if overlaps(matches, loc[0], loc[1]) {
				continue
			}
			value := text[loc[0]:loc[1]]
			if detector.Validate != nil && !detector.Validate(value) {
				continue
			}
			matches = append(matches, Match{
				InfoType: detector.InfoType,
				Value:    value,
				Start:    loc[0],
				End:      loc[1],
			})
		}
	}

	sort.Slice(matches, func(a, b int) bool { return matches[a].Start < matches[b].Start })
	return matches
}

func overlaps(matches []Match, start, end int) bool {
	for _, m := range matches {
		if start < m.End && m.Start < end {
			return true
		}
	}
	return false
}

// ValidCardNumber reports whether value, ignoring spaces and dashes, is 13 to 19 digits
// passing the Luhn checksum.
func ValidCardNumber(value string) bool {
	digits := strings.NewReplacer(" ", "", "-", "").Replace(value)
	if len(digits) < 13 || len(digits) > 19 {
		return false
	}

	sum := 0
	double := false
	for idx := len(digits) - 1; idx >= 0; idx-- {
		c := digits[idx]
		if c < '0' || c > '9' {
			return false
		}
		d := int(c - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// validSSN rejects the area, group and serial values never issued.
func validSSN(value string) bool {
	area, group, serial := value[0:3], value[4:6], value[7:11]
	if area == "000" || area == "666" || area[0] == '9' {
		return false
	}
	return group != "00" && serial != "0000"
}
