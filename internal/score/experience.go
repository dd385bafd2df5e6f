package score

import (
	"regexp"
	"strconv"
	"strings"
)

var reDigits = regexp.MustCompile(`\d+`)

// ExperienceRange is the parsed form of a free-text experience requirement.
type ExperienceRange struct {
	Min     int
	Max     int
	Known   bool // at least one plausible year value was found
	Fresher bool // text signals an entry-level role
}

var fresherSignals = []string{"fresher", "entry", "graduate", "intern", "junior"}

// ParseExperience extracts the first one or two integers that plausibly
// denote years from a requirement string such as "2-4 years". Values of 20
// or more are rejected as false positives (4-digit years, requisition IDs).
// An empty or numberless string parses as unknown.
func ParseExperience(s string) ExperienceRange {
	var r ExperienceRange
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return r
	}

	for _, sig := range fresherSignals {
		if strings.Contains(s, sig) {
			r.Fresher = true
			break
		}
	}

	var years []int
	for _, m := range reDigits.FindAllString(s, -1) {
		n, err := strconv.Atoi(m)
		if err != nil || n >= 20 {
			continue
		}
		years = append(years, n)
		if len(years) == 2 {
			break
		}
	}

	if len(years) == 0 {
		return r
	}

	r.Known = true
	r.Min = years[0]
	r.Max = years[0]
	if len(years) == 2 {
		r.Max = years[1]
		if r.Max < r.Min {
			r.Min, r.Max = r.Max, r.Min
		}
	}
	return r
}
