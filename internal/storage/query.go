package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/wa-dockets/internal/docket"
)

// StoredCase is a persisted case record. Cases first seen on an opinion release
// have a zero ConsiderationDate.
type StoredCase struct {
	ID            int64      `json:"id"`
	Division      int        `json:"division"`
	ScrapedAt     time.Time  `json:"scraped_at"`
	OpinionDate   *time.Time `json:"opinion_date,omitempty"`
	OpinionStatus string     `json:"opinion_status,omitempty"`
	docket.CaseRecord
}

// CaseFilter narrows ListCases. Zero values match everything.
type CaseFilter struct {
	Division int
	From     time.Time
	To       time.Time
	// Attorney is a case-insensitive substring of an attorney name
	Attorney string
}

// ListCases returns matching cases ordered by consideration date, division and
// primary number, with all child rows loaded
func (s *Store) ListCases(ctx context.Context, f CaseFilter) ([]StoredCase, error) {
	var (
		where []string
		args  []any
	)
	if f.Division != 0 {
		where = append(where, "c.division = ?")
		args = append(args, f.Division)
	}
	if !f.From.IsZero() || !f.To.IsZero() {
		where = append(where, "c.panel_date <> ''")
	}
	if !f.From.IsZero() {
		where = append(where, "c.panel_date >= ?")
		args = append(args, f.From.Format(DateLayout))
	}
	if !f.To.IsZero() {
		where = append(where, "c.panel_date <= ?")
		args = append(args, f.To.Format(DateLayout))
	}
	if f.Attorney != "" {
		where = append(where, "EXISTS (SELECT 1 FROM attorneys a WHERE a.case_id = c.id AND LOWER(a.name) LIKE LOWER(?))")
		args = append(args, likePattern(f.Attorney))
	}

	query := `SELECT c.id, c.division, c.case_title, c.panel_date, c.oral_arguments,
		c.lower_court, c.lower_court_case_number, c.scraped_at,
		c.opinion_date, c.opinion_publication_status
		FROM cases c`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY c.panel_date, c.division, c.primary_number"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying cases: %w", err)
	}

	var cases []StoredCase
	for rows.Next() {
		var (
			c                  StoredCase
			panelDate, scraped string
			oral               int
			opinion, status    sql.NullString
		)
		if err := rows.Scan(&c.ID, &c.Division, &c.Title, &panelDate, &oral,
			&c.LowerCourt, &c.LowerCourtCaseNumber, &scraped, &opinion, &status); err != nil {
			rows.Close() // nolint:errcheck
			return nil, fmt.Errorf("scanning case: %w", err)
		}
		c.OralArgument = oral != 0
		if panelDate != "" {
			if c.ConsiderationDate, err = time.Parse(DateLayout, panelDate); err != nil {
				rows.Close() // nolint:errcheck
				return nil, fmt.Errorf("parsing panel date %q: %w", panelDate, err)
			}
		}
		if opinion.Valid && opinion.String != "" {
			filed, err := time.Parse(DateLayout, opinion.String)
			if err != nil {
				rows.Close() // nolint:errcheck
				return nil, fmt.Errorf("parsing opinion date %q: %w", opinion.String, err)
			}
			c.OpinionDate = &filed
		}
		c.OpinionStatus = status.String
		c.ScrapedAt, _ = time.Parse(time.RFC3339, scraped)
		cases = append(cases, c)
	}
	if err := rows.Err(); err != nil {
		rows.Close() // nolint:errcheck
		return nil, fmt.Errorf("iterating cases: %w", err)
	}
	rows.Close() // nolint:errcheck

	// Children are loaded after the case cursor is closed; the store has one connection.
	for i := range cases {
		if err := s.loadChildren(ctx, &cases[i]); err != nil {
			return nil, err
		}
	}

	return cases, nil
}

func (s *Store) loadChildren(ctx context.Context, c *StoredCase) error {
	c.CaseNumbers = []docket.CaseNumber{}
	err := s.each(ctx, `SELECT case_number, is_primary FROM case_numbers WHERE case_id = ? ORDER BY is_primary DESC, id`,
		c.ID, func(rows *sql.Rows) error {
			var (
				cn      docket.CaseNumber
				primary int
			)
			if err := rows.Scan(&cn.Number, &primary); err != nil {
				return err
			}
			cn.Primary = primary != 0
			c.CaseNumbers = append(c.CaseNumbers, cn)
			return nil
		})
	if err != nil {
		return fmt.Errorf("loading case numbers: %w", err)
	}

	c.Panel = []string{}
	err = s.each(ctx, `SELECT name FROM judges WHERE case_id = ? ORDER BY id`, c.ID, func(rows *sql.Rows) error {
		var name string
		if err := rows.Scan(&name); err != nil {
			return err
		}
		c.Panel = append(c.Panel, name)
		return nil
	})
	if err != nil {
		return fmt.Errorf("loading judges: %w", err)
	}

	c.Litigants = []docket.Litigant{}
	err = s.each(ctx, `SELECT name, role FROM litigants WHERE case_id = ? ORDER BY id`, c.ID, func(rows *sql.Rows) error {
		var l docket.Litigant
		if err := rows.Scan(&l.Name, &l.Role); err != nil {
			return err
		}
		c.Litigants = append(c.Litigants, l)
		return nil
	})
	if err != nil {
		return fmt.Errorf("loading litigants: %w", err)
	}

	c.Attorneys = []string{}
	err = s.each(ctx, `SELECT name FROM attorneys WHERE case_id = ? ORDER BY id`, c.ID, func(rows *sql.Rows) error {
		var name string
		if err := rows.Scan(&name); err != nil {
			return err
		}
		c.Attorneys = append(c.Attorneys, name)
		return nil
	})
	if err != nil {
		return fmt.Errorf("loading attorneys: %w", err)
	}

	return nil
}

func (s *Store) each(ctx context.Context, query string, arg any, fn func(*sql.Rows) error) error {
	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		return err
	}
	defer rows.Close() // nolint:errcheck

	for rows.Next() {
		if err := fn(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

// AttorneyCase is one (attorney, case number) pairing returned by AttorneyCases
type AttorneyCase struct {
	Title      string    `json:"case_title"`
	PanelDate  time.Time `json:"panel_date"`
	Division   int       `json:"division"`
	Attorney   string    `json:"attorney_name"`
	CaseNumber string    `json:"case_number"`
	Primary    bool      `json:"is_primary"`
}

// AttorneyCases finds every case number of every case whose attorney name contains
// pattern, case-insensitively, ordered by panel date
func (s *Store) AttorneyCases(ctx context.Context, pattern string) ([]AttorneyCase, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT c.case_title, c.panel_date, c.division, a.name, cn.case_number, cn.is_primary
		 FROM cases c
		 JOIN attorneys a ON c.id = a.case_id
		 JOIN case_numbers cn ON c.id = cn.case_id
		 WHERE LOWER(a.name) LIKE LOWER(?)
		 ORDER BY c.panel_date, c.id, a.name, cn.is_primary DESC, cn.id`,
		likePattern(pattern))
	if err != nil {
		return nil, fmt.Errorf("querying attorney cases: %w", err)
	}
	defer rows.Close() // nolint:errcheck

	var results []AttorneyCase
	for rows.Next() {
		var (
			r         AttorneyCase
			panelDate string
			primary   int
		)
		if err := rows.Scan(&r.Title, &panelDate, &r.Division, &r.Attorney, &r.CaseNumber, &primary); err != nil {
			return nil, fmt.Errorf("scanning attorney case: %w", err)
		}
		r.Primary = primary != 0
		if r.PanelDate, err = time.Parse(DateLayout, panelDate); err != nil {
			return nil, fmt.Errorf("parsing panel date %q: %w", panelDate, err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating attorney cases: %w", err)
	}

	return results, nil
}

// UniqueAttorneys returns attorney names, one per case-insensitive spelling, sorted
func (s *Store) UniqueAttorneys(ctx context.Context) ([]string, error) {
	return s.uniqueNames(ctx, "attorneys")
}

// UniqueJudges returns judge names, one per case-insensitive spelling, sorted
func (s *Store) UniqueJudges(ctx context.Context) ([]string, error) {
	return s.uniqueNames(ctx, "judges")
}

func (s *Store) uniqueNames(ctx context.Context, table string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT MIN(name) FROM %s GROUP BY LOWER(name) ORDER BY LOWER(name)`, table))
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", table, err)
	}
	defer rows.Close() // nolint:errcheck

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", table, err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// CountCases returns the number of stored cases, optionally limited to one division
func (s *Store) CountCases(ctx context.Context, division int) (int, error) {
	query := `SELECT COUNT(*) FROM cases`
	var args []any
	if division != 0 {
		query += ` WHERE division = ?`
		args = append(args, division)
	}
	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting cases: %w", err)
	}
	return n, nil
}

// likePattern wraps a plain substring in % wildcards. Patterns that already
// contain a wildcard are used as given.
func likePattern(pattern string) string {
	if strings.ContainsAny(pattern, "%_") {
		return pattern
	}
	return "%" + pattern + "%"
}
