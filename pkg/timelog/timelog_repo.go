package timelog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

var ErrEntryNotFound = errors.New("time log entry not found")

// Queryer is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type Queryer interface {
	Exec(ctx context.Context, query string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, query string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, query string, args ...interface{}) pgx.Row
}

type Repository interface {
	AppendEntry(ctx context.Context, studyId int, entry Entry) (Entry, error)
	ListEntries(ctx context.Context, studyId int) ([]Entry, error)
	AnnotateEntry(ctx context.Context, studyId int, entryId int, annotation Annotation) (Entry, error)
	DeleteEntry(ctx context.Context, studyId int, entryId int) error
	DeleteAllEntries(ctx context.Context, studyId int) (int, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

const entryColumns = `id, at, employee_id, event, reason_code, comment`

func scanEntry(row pgx.Row) (Entry, error) {
	var e Entry
	var event string
	err := row.Scan(&e.Id, &e.At, &e.EmployeeId, &event, &e.ReasonCode, &e.Comment)
	e.Event = EventType(event)
	return e, err
}

// InsertEntry appends an entry using the given queryer, so callers can make it part of their own transaction.
func InsertEntry(ctx context.Context, q Queryer, studyId int, entry Entry) (Entry, error) {
	query := `INSERT INTO time_log_entry (study_id, at, employee_id, event, reason_code, comment)
				VALUES ($1, $2, $3, $4, $5, $6) RETURNING ` + entryColumns
	created, err := scanEntry(q.QueryRow(ctx, query,
		studyId,
		entry.At,
		entry.EmployeeId,
		string(entry.Event),
		entry.ReasonCode,
		entry.Comment,
	))
	if err != nil {
		err := fmt.Errorf("could not insert time log entry: %w", err)
		log.Error(err)
		return Entry{}, err
	}
	return created, nil
}

func (r *RepositoryImpl) AppendEntry(ctx context.Context, studyId int, entry Entry) (Entry, error) {
	return InsertEntry(ctx, r.db, studyId, entry)
}

func (r *RepositoryImpl) ListEntries(ctx context.Context, studyId int) ([]Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM time_log_entry WHERE study_id = $1 ORDER BY at, id`
	rows, err := r.db.Query(ctx, query, studyId)
	if err != nil {
		err := fmt.Errorf("could not query time log: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	entries := make([]Entry, 0, 64)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			err := fmt.Errorf("could not scan row: %w", err)
			log.Error(err)
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *RepositoryImpl) AnnotateEntry(ctx context.Context, studyId int, entryId int, annotation Annotation) (Entry, error) {
	query := `UPDATE time_log_entry SET reason_code = $1, comment = $2
				WHERE study_id = $3 AND id = $4 RETURNING ` + entryColumns
	updated, err := scanEntry(r.db.QueryRow(ctx, query, annotation.ReasonCode, annotation.Comment, studyId, entryId))
	if errors.Is(err, pgx.ErrNoRows) {
		return Entry{}, ErrEntryNotFound
	} else if err != nil {
		err := fmt.Errorf("could not annotate time log entry: %w", err)
		log.Error(err)
		return Entry{}, err
	}
	return updated, nil
}

func (r *RepositoryImpl) DeleteEntry(ctx context.Context, studyId int, entryId int) error {
	result, err := r.db.Exec(ctx, `DELETE FROM time_log_entry WHERE study_id = $1 AND id = $2`, studyId, entryId)
	if err != nil {
		err := fmt.Errorf("could not delete time log entry: %w", err)
		log.Error(err)
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrEntryNotFound
	}
	return nil
}

func (r *RepositoryImpl) DeleteAllEntries(ctx context.Context, studyId int) (int, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM time_log_entry WHERE study_id = $1`, studyId)
	if err != nil {
		err := fmt.Errorf("could not clear time log: %w", err)
		log.Error(err)
		return 0, err
	}
	return int(result.RowsAffected()), nil
}
