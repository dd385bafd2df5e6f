package sink

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ajsalpv/Job-Applying/internal/domain"
)

// SQLite stores scored listings in a local database file.
type SQLite struct {
	db *sql.DB
}

func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLite) migrate() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS listings (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  source TEXT NOT NULL,
  company TEXT NOT NULL,
  role TEXT NOT NULL,
  location TEXT NOT NULL,
  experience TEXT NOT NULL DEFAULT '',
  url TEXT NOT NULL UNIQUE,
  score INTEGER NOT NULL DEFAULT 0,
  skill_score INTEGER NOT NULL DEFAULT 0,
  experience_score INTEGER NOT NULL DEFAULT 0,
  location_score INTEGER NOT NULL DEFAULT 0,
  role_score INTEGER NOT NULL DEFAULT 0,
  recommendation TEXT NOT NULL DEFAULT 'skip',
  discovered_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_listings_score ON listings(score DESC);
`)
	return err
}

// AppendRecord inserts the listing, relying on the unique url constraint to
// reject duplicates independently of the dedup store.
func (s *SQLite) AppendRecord(ctx context.Context, l domain.ScoredListing) (bool, error) {
	discovered := l.DiscoveredAt
	if discovered.IsZero() {
		discovered = time.Now().UTC()
	}

	res, err := s.db.ExecContext(ctx, `
INSERT OR IGNORE INTO listings(
  source, company, role, location, experience, url,
  score, skill_score, experience_score, location_score, role_score,
  recommendation, discovered_at)
VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?);`,
		l.SourceName,
		l.Company,
		l.Role,
		l.Location,
		l.Experience,
		l.URL,
		l.Score.Total,
		l.Score.Skill,
		l.Score.Experience,
		l.Score.Location,
		l.Score.Role,
		string(l.Score.Recommendation),
		discovered.Format(time.RFC3339),
	)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// Record is the API-facing row shape.
type Record struct {
	ID             int64     `json:"id"`
	Source         string    `json:"source"`
	Company        string    `json:"company"`
	Role           string    `json:"role"`
	Location       string    `json:"location"`
	Experience     string    `json:"experience"`
	URL            string    `json:"url"`
	Score          int       `json:"score"`
	Recommendation string    `json:"recommendation"`
	DiscoveredAt   time.Time `json:"discovered_at"`
}

// List returns stored listings ranked by score.
func (s *SQLite) List(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, source, company, role, location, experience, url, score, recommendation, discovered_at
FROM listings
ORDER BY score DESC, id ASC
LIMIT ?;`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		var discovered string
		if err := rows.Scan(&r.ID, &r.Source, &r.Company, &r.Role, &r.Location,
			&r.Experience, &r.URL, &r.Score, &r.Recommendation, &discovered); err != nil {
			return nil, err
		}
		r.DiscoveredAt, _ = time.Parse(time.RFC3339, discovered)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLite) Close() error { return s.db.Close() }
