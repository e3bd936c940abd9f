package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pfrederiksen/wa-dockets/internal/docket"
	"github.com/pfrederiksen/wa-dockets/internal/opinions"
)

// PersistenceError reports a case that could not be saved
type PersistenceError struct {
	Division   int
	CaseNumber string
	Date       time.Time
	Err        error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("saving case %s (division %d, %s): %v",
		e.CaseNumber, e.Division, e.Date.Format(DateLayout), e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Batch is one page's worth of writes, committed or rolled back together. Opinion
// writes carry their own division; the batch division applies to cases.
type Batch struct {
	tx        *sql.Tx
	division  int
	scrapedAt string
	done      bool
}

// Begin starts a batch for division
func (s *Store) Begin(ctx context.Context, division int) (*Batch, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	return &Batch{
		tx:        tx,
		division:  division,
		scrapedAt: time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// SaveCase inserts rec and its child rows. Rows that already exist are left alone.
// A failed case leaves nothing behind in the batch. Failures are returned as
// *PersistenceError.
func (b *Batch) SaveCase(ctx context.Context, rec docket.CaseRecord) error {
	if err := b.savepoint(ctx, func() error { return b.saveCase(ctx, rec) }); err != nil {
		return &PersistenceError{
			Division:   b.division,
			CaseNumber: rec.PrimaryNumber(),
			Date:       rec.ConsiderationDate,
			Err:        err,
		}
	}
	return nil
}

// savepoint runs fn inside a SQLite savepoint, undoing its writes if it fails
func (b *Batch) savepoint(ctx context.Context, fn func() error) error {
	if _, err := b.tx.ExecContext(ctx, "SAVEPOINT batch_item"); err != nil {
		return fmt.Errorf("creating savepoint: %w", err)
	}
	if err := fn(); err != nil {
		if _, rbErr := b.tx.ExecContext(ctx, "ROLLBACK TO batch_item"); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rolling back savepoint: %w", rbErr))
		}
		b.tx.ExecContext(ctx, "RELEASE batch_item") // nolint:errcheck
		return err
	}
	if _, err := b.tx.ExecContext(ctx, "RELEASE batch_item"); err != nil {
		return fmt.Errorf("releasing savepoint: %w", err)
	}
	return nil
}

func (b *Batch) saveCase(ctx context.Context, rec docket.CaseRecord) error {
	primary := rec.PrimaryNumber()
	if primary == "" {
		return errors.New("record has no primary case number")
	}
	date := rec.ConsiderationDate.Format(DateLayout)

	_, err := b.tx.ExecContext(ctx,
		`INSERT INTO cases (division, case_title, panel_date, primary_number, oral_arguments,
			lower_court, lower_court_case_number, scraped_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(division, panel_date, primary_number) DO NOTHING`,
		b.division, rec.Title, date, primary, boolInt(rec.OralArgument),
		rec.LowerCourt, rec.LowerCourtCaseNumber, b.scrapedAt)
	if err != nil {
		return fmt.Errorf("inserting case: %w", err)
	}

	var caseID int64
	err = b.tx.QueryRowContext(ctx,
		`SELECT id FROM cases WHERE division = ? AND panel_date = ? AND primary_number = ?`,
		b.division, date, primary).Scan(&caseID)
	if err != nil {
		return fmt.Errorf("looking up case id: %w", err)
	}

	for _, cn := range rec.CaseNumbers {
		if _, err := b.tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO case_numbers (case_id, case_number, is_primary) VALUES (?, ?, ?)`,
			caseID, cn.Number, boolInt(cn.Primary)); err != nil {
			return fmt.Errorf("inserting case number %s: %w", cn.Number, err)
		}
	}

	for _, judge := range rec.Panel {
		if judge == "" {
			continue
		}
		if _, err := b.tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO judges (case_id, name) VALUES (?, ?)`,
			caseID, judge); err != nil {
			return fmt.Errorf("inserting judge %s: %w", judge, err)
		}
	}

	for _, l := range rec.Litigants {
		if l.Name == "" {
			continue
		}
		if _, err := b.tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO litigants (case_id, name, role) VALUES (?, ?, ?)`,
			caseID, l.Name, l.Role); err != nil {
			return fmt.Errorf("inserting litigant %s: %w", l.Name, err)
		}
	}

	for _, a := range rec.Attorneys {
		if a == "" {
			continue
		}
		if _, err := b.tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO attorneys (case_id, name) VALUES (?, ?)`,
			caseID, a); err != nil {
			return fmt.Errorf("inserting attorney %s: %w", a, err)
		}
	}

	return nil
}

// OpinionResult says how SaveOpinion stored an opinion
type OpinionResult int

const (
	// OpinionUpdated means existing cases received the opinion
	OpinionUpdated OpinionResult = iota + 1
	// OpinionInserted means no case matched and one was created from the opinion
	OpinionInserted
)

// SaveOpinion sets the opinion date and publication status of every stored case in
// the opinion's division that carries its case number, primary or consolidated. When
// no case matches, a case without a consideration date is created from the opinion.
// Failures are returned as *PersistenceError.
func (b *Batch) SaveOpinion(ctx context.Context, op opinions.Opinion) (OpinionResult, error) {
	var result OpinionResult
	err := b.savepoint(ctx, func() error {
		var err error
		result, err = b.saveOpinion(ctx, op)
		return err
	})
	if err != nil {
		return 0, &PersistenceError{
			Division:   op.Division,
			CaseNumber: op.CaseNumber,
			Date:       op.FileDate,
			Err:        err,
		}
	}
	return result, nil
}

func (b *Batch) saveOpinion(ctx context.Context, op opinions.Opinion) (OpinionResult, error) {
	if op.CaseNumber == "" {
		return 0, errors.New("opinion has no case number")
	}
	filed := op.FileDate.Format(DateLayout)

	res, err := b.tx.ExecContext(ctx,
		`UPDATE cases SET opinion_date = ?, opinion_publication_status = ?
		 WHERE division = ? AND id IN (SELECT case_id FROM case_numbers WHERE case_number = ?)`,
		filed, string(op.Type), op.Division, op.CaseNumber)
	if err != nil {
		return 0, fmt.Errorf("updating opinion: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting updated cases: %w", err)
	}
	if n > 0 {
		return OpinionUpdated, nil
	}

	res, err = b.tx.ExecContext(ctx,
		`INSERT INTO cases (division, case_title, panel_date, primary_number,
			opinion_date, opinion_publication_status, scraped_at)
		 VALUES (?, ?, '', ?, ?, ?, ?)`,
		op.Division, op.Title, op.CaseNumber, filed, string(op.Type), b.scrapedAt)
	if err != nil {
		return 0, fmt.Errorf("inserting case: %w", err)
	}
	caseID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading case id: %w", err)
	}
	if _, err := b.tx.ExecContext(ctx,
		`INSERT INTO case_numbers (case_id, case_number, is_primary) VALUES (?, ?, 1)`,
		caseID, op.CaseNumber); err != nil {
		return 0, fmt.Errorf("inserting case number %s: %w", op.CaseNumber, err)
	}
	return OpinionInserted, nil
}

// MarkProcessed records date as the division's last processed docket date
func (b *Batch) MarkProcessed(ctx context.Context, date time.Time) error {
	return setMetadata(ctx, b.tx, LastProcessedKey(b.division), date.Format(DateLayout))
}

// Commit commits the batch
func (b *Batch) Commit() error {
	if b.done {
		return nil
	}
	b.done = true
	if err := b.tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Rollback discards the batch. It is a no-op after Commit.
func (b *Batch) Rollback() error {
	if b.done {
		return nil
	}
	b.done = true
	if err := b.tx.Rollback(); err != nil {
		return fmt.Errorf("rolling back transaction: %w", err)
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
