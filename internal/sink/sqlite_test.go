package sink

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajsalpv/Job-Applying/internal/domain"
)

func openTestSink(t *testing.T) *SQLite {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "listings.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func scoredListing(url string, total int) domain.ScoredListing {
	return domain.ScoredListing{
		Listing: domain.Listing{
			Role:       "AI Engineer",
			Company:    "Acme",
			Location:   "Remote",
			Experience: "1-3 years",
			URL:        url,
			SourceName: "board",
		},
		Score: domain.ScoreBreakdown{
			Total: total, Skill: 20, Experience: 22, Location: 15, Role: 20,
			Recommendation: domain.RecommendMaybe,
		},
		DiscoveredAt: time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC),
	}
}

func TestAppendRecordAndList(t *testing.T) {
	s := openTestSink(t)
	ctx := context.Background()

	accepted, err := s.AppendRecord(ctx, scoredListing("https://a/1", 72))
	require.NoError(t, err)
	assert.True(t, accepted)

	accepted, err = s.AppendRecord(ctx, scoredListing("https://a/2", 95))
	require.NoError(t, err)
	assert.True(t, accepted)

	got, err := s.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Ranked by score descending.
	assert.Equal(t, "https://a/2", got[0].URL)
	assert.Equal(t, 95, got[0].Score)
	assert.Equal(t, "Acme", got[0].Company)
	assert.Equal(t, "maybe", got[0].Recommendation)
	assert.Equal(t, time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC), got[0].DiscoveredAt)
}

func TestAppendRecordRejectsDuplicateURL(t *testing.T) {
	s := openTestSink(t)
	ctx := context.Background()

	accepted, err := s.AppendRecord(ctx, scoredListing("https://a/1", 72))
	require.NoError(t, err)
	require.True(t, accepted)

	accepted, err = s.AppendRecord(ctx, scoredListing("https://a/1", 90))
	require.NoError(t, err)
	assert.False(t, accepted)

	got, err := s.List(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, 72, got[0].Score)
}

func TestListLimit(t *testing.T) {
	s := openTestSink(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := s.AppendRecord(ctx, scoredListing(
			"https://a/"+string(rune('0'+i)), 60+i))
		require.NoError(t, err)
	}

	got, err := s.List(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, got, 3)
	assert.Equal(t, 64, got[0].Score)
}
