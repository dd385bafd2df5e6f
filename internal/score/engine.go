// Package score turns a raw listing into a bounded fit-score breakdown.
// The engine is a pure function of the candidate profile and the listing;
// it holds no mutable state and is safe for concurrent use.
package score

import (
	"fmt"
	"math"
	"strings"

	"github.com/ajsalpv/Job-Applying/internal/config"
	"github.com/ajsalpv/Job-Applying/internal/domain"
)

const (
	// Hard-exclusion experience thresholds. A parsed minimum of 3+ years or
	// a maximum of 5+ years is too senior for the target profile.
	excludeMinYears = 3
	excludeMaxYears = 5

	skillNeutralDefault = 22 // awarded when a listing states no skills
	applyThreshold      = 80
	maybeThreshold      = 60
)

type Engine struct {
	profile config.Profile
}

func New(profile config.Profile) *Engine {
	return &Engine{profile: profile}
}

// Score evaluates one listing. Hard exclusions short-circuit: an excluded
// listing always has Total 0 and a skip recommendation.
func (e *Engine) Score(l domain.Listing) domain.ScoreBreakdown {
	title := strings.ToLower(l.Role)
	exp := ParseExperience(l.Experience)

	if reason, excluded := e.exclusionReason(title, exp); excluded {
		return domain.ScoreBreakdown{
			Excluded:       true,
			Reason:         reason,
			Recommendation: domain.RecommendSkip,
		}
	}

	b := domain.ScoreBreakdown{
		Skill:      e.skillScore(l.Skills),
		Experience: experienceScore(exp),
		Location:   e.locationScore(l.Location),
		Role:       e.roleScore(title),
	}
	b.Total = clamp(b.Skill+b.Experience+b.Location+b.Role, 0, 100)

	switch {
	case b.Total >= applyThreshold:
		b.Recommendation = domain.RecommendApply
	case b.Total >= maybeThreshold:
		b.Recommendation = domain.RecommendMaybe
	default:
		b.Recommendation = domain.RecommendSkip
	}
	return b
}

func (e *Engine) exclusionReason(title string, exp ExperienceRange) (string, bool) {
	for _, ex := range e.profile.ExcludedTitles {
		if strings.Contains(title, strings.ToLower(ex)) {
			return fmt.Sprintf("excluded title: %s", ex), true
		}
	}
	for _, kw := range e.profile.ExcludedKeywords {
		if strings.Contains(title, strings.ToLower(kw)) {
			return fmt.Sprintf("excluded domain keyword: %s", kw), true
		}
	}
	if exp.Known {
		if exp.Min >= excludeMinYears {
			return fmt.Sprintf("requires %d+ years experience", exp.Min), true
		}
		if exp.Max >= excludeMaxYears {
			return fmt.Sprintf("experience range reaches %d years", exp.Max), true
		}
	}
	return "", false
}

// skillScore scales the overlap between job-stated skills and the candidate
// skill set to 0-40. A listing that states no skills gets a neutral default.
func (e *Engine) skillScore(jobSkills []string) int {
	stated := map[string]bool{}
	for _, s := range jobSkills {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			stated[s] = true
		}
	}
	if len(stated) == 0 {
		return skillNeutralDefault
	}

	mine := map[string]bool{}
	for _, s := range e.profile.Skills {
		mine[strings.ToLower(s)] = true
	}

	matched := 0
	for s := range stated {
		if mine[s] {
			matched++
		}
	}
	return int(math.Round(float64(matched) / float64(len(stated)) * 40))
}

func experienceScore(exp ExperienceRange) int {
	if !exp.Known {
		if exp.Fresher {
			return 25
		}
		return 15 // unspecified: tentatively moderate
	}
	switch {
	case exp.Min >= excludeMinYears:
		return 0 // already excluded upstream
	case exp.Max <= 2:
		return 25
	case exp.Min <= 1 && exp.Max <= 4:
		return 22
	case exp.Min == 2:
		return 17
	default:
		return 12
	}
}

func (e *Engine) locationScore(location string) int {
	loc := strings.ToLower(location)
	if strings.Contains(loc, "remote") || strings.Contains(loc, "wfh") ||
		strings.Contains(loc, "work from home") {
		return 15
	}
	for _, city := range e.profile.PreferredLocations {
		if strings.Contains(loc, strings.ToLower(city)) {
			return 15
		}
	}
	if strings.Contains(loc, "hybrid") {
		return 12
	}
	for _, city := range e.profile.OtherLocations {
		if strings.Contains(loc, strings.ToLower(city)) {
			return 10
		}
	}
	return 5
}

var broadAIKeywords = []string{"ai", "ml", "machine learning", "llm", "nlp", "deep learning", "genai"}

func (e *Engine) roleScore(title string) int {
	for _, target := range e.profile.TargetTitles {
		if strings.Contains(title, strings.ToLower(target)) {
			return 20
		}
	}
	for _, kw := range broadAIKeywords {
		if containsKeyword(title, kw) {
			return 18
		}
	}
	if strings.Contains(title, "data scientist") {
		return 15
	}
	if strings.Contains(title, "engineer") || strings.Contains(title, "developer") {
		return 10
	}
	return 5
}

// containsKeyword matches short tokens (ai, ml, nlp) on word boundaries so
// "trainer" does not read as an AI role; longer phrases use plain contains.
func containsKeyword(text, kw string) bool {
	if len(kw) > 3 || strings.ContainsRune(kw, ' ') {
		return strings.Contains(text, kw)
	}
	for _, tok := range strings.FieldsFunc(text, func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	}) {
		if tok == kw {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
