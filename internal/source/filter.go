package source

import (
	"strings"

	"github.com/ajsalpv/Job-Applying/internal/config"
	"github.com/ajsalpv/Job-Applying/internal/domain"
	"github.com/ajsalpv/Job-Applying/internal/score"
)

// Prefilter is the source-local coarse pass shared by all adapters: cheap
// title and experience checks that cut obvious misses before the listing
// reaches the authoritative scoring engine.
type Prefilter struct {
	profile config.Profile
}

func NewPrefilter(profile config.Profile) *Prefilter {
	return &Prefilter{profile: profile}
}

var seniorTokens = []string{"senior", "staff", "principal", "lead", "sr.", "manager", "director", "vp"}

var highExpSignals = []string{"5", "6", "7", "8", "9", "5+", "8+", "10+"}
var lowExpSignals = []string{"0", "1", "2", "fresher", "entry", "intern", "junior"}

var relevanceKeywords = []string{
	"ai", "ml", "machine learning", "llm", "nlp",
	"deep learning", "genai", "artificial intelligence", "data scientist",
}

// Apply keeps the listings that survive the coarse pass. searchKeywords come
// from the query that produced the batch; a listing matching them is
// relevant by construction.
func (f *Prefilter) Apply(listings []domain.Listing, searchKeywords string) (kept []domain.Listing, dropped int) {
	for _, l := range listings {
		if f.Keep(l, searchKeywords) {
			kept = append(kept, l)
		} else {
			dropped++
		}
	}
	return kept, dropped
}

// Keep applies the per-listing rules. An empty experience requirement is
// unknown and tentatively kept; the scoring engine decides later.
func (f *Prefilter) Keep(l domain.Listing, searchKeywords string) bool {
	role := strings.ToLower(l.Role)

	for _, ex := range f.profile.ExcludedTitles {
		if strings.Contains(role, strings.ToLower(ex)) {
			return false
		}
	}
	for _, kw := range f.profile.ExcludedKeywords {
		if strings.Contains(role, strings.ToLower(kw)) {
			return false
		}
	}
	for _, tok := range seniorTokens {
		if strings.Contains(role, tok) {
			return false
		}
	}

	expText := strings.ToLower(l.Experience)
	if expText != "" {
		exp := score.ParseExperience(l.Experience)
		if exp.Known && exp.Min > f.profile.ExperienceYears+2 {
			return false
		}
		if containsAny(expText, highExpSignals) && !containsAny(expText, lowExpSignals) {
			return false
		}
	}

	return f.relevant(role, searchKeywords)
}

func (f *Prefilter) relevant(role, searchKeywords string) bool {
	for _, kw := range relevanceKeywords {
		if matchKeyword(role, kw) {
			return true
		}
	}
	for _, kw := range strings.Fields(strings.ToLower(searchKeywords)) {
		if matchKeyword(role, kw) {
			return true
		}
	}
	return strings.Contains(role, "engineer") || strings.Contains(role, "developer")
}

// matchKeyword treats 2-3 letter keywords as whole tokens so "ai" does not
// match "trainer".
func matchKeyword(text, kw string) bool {
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

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
