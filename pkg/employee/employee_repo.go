package employee

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/timestudy/timestudy/pkg/timelog"
	log "github.com/sirupsen/logrus"
)

type Repository interface {
	WithTransaction(ctx context.Context, fn func(repo Repository) error) error
	CreateEmployee(ctx context.Context, studyId int, employee Employee) (Employee, error)
	// GetEmployee returns deleted employees too. Inside a transaction the row is locked until commit.
	GetEmployee(ctx context.Context, studyId int, id int) (Employee, error)
	ListEmployees(ctx context.Context, studyId int, includeDeleted bool) ([]Employee, error)
	UpdateTimer(ctx context.Context, studyId int, employee Employee) (Employee, error)
	AppendLogEntry(ctx context.Context, studyId int, entry timelog.Entry) (timelog.Entry, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
	tx pgx.Tx
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

// getQueryer returns the appropriate database interface for queries (either tx or db)
func (r *RepositoryImpl) getQueryer() timelog.Queryer {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

func (r *RepositoryImpl) WithTransaction(ctx context.Context, fn func(repo Repository) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		// no-op after commit
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			log.Errorf("rollback error: %v", rbErr)
		}
	}()

	txRepo := &RepositoryImpl{db: r.db, tx: tx}
	if err := fn(txRepo); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

const employeeColumns = `id, name, status, start_time, elapsed_ms, paused_ms, last_paused_at, deleted, created_at`

func scanEmployee(row pgx.Row) (Employee, error) {
	var e Employee
	var status string
	var elapsedMs, pausedMs int64
	err := row.Scan(&e.Id, &e.Name, &status, &e.StartTime, &elapsedMs, &pausedMs, &e.LastPausedAt, &e.Deleted, &e.CreatedAt)
	e.Status = Status(status)
	e.Elapsed = time.Duration(elapsedMs) * time.Millisecond
	e.PausedAccum = time.Duration(pausedMs) * time.Millisecond
	return e, err
}

func (r *RepositoryImpl) CreateEmployee(ctx context.Context, studyId int, employee Employee) (Employee, error) {
	query := `INSERT INTO employee (study_id, name, status) VALUES ($1, $2, $3) RETURNING ` + employeeColumns
	created, err := scanEmployee(r.getQueryer().QueryRow(ctx, query, studyId, employee.Name, string(StatusIdle)))
	if err != nil {
		err := fmt.Errorf("could not create employee: %w", err)
		log.Error(err)
		return Employee{}, err
	}
	return created, nil
}

func (r *RepositoryImpl) GetEmployee(ctx context.Context, studyId int, id int) (Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employee WHERE study_id = $1 AND id = $2`
	if r.tx != nil {
		query += ` FOR UPDATE`
	}
	e, err := scanEmployee(r.getQueryer().QueryRow(ctx, query, studyId, id))
	if errors.Is(err, pgx.ErrNoRows) {
		log.Debugf("employee %d not found in study %d", id, studyId)
		return Employee{}, ErrEmployeeNotFound
	} else if err != nil {
		err := fmt.Errorf("could not get employee: %w", err)
		log.Error(err)
		return Employee{}, err
	}
	return e, nil
}

func (r *RepositoryImpl) ListEmployees(ctx context.Context, studyId int, includeDeleted bool) ([]Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employee WHERE study_id = $1`
	if !includeDeleted {
		query += ` AND deleted = false`
	}
	query += ` ORDER BY id`
	if r.tx != nil {
		query += ` FOR UPDATE`
	}

	rows, err := r.getQueryer().Query(ctx, query, studyId)
	if err != nil {
		err := fmt.Errorf("could not query employees: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	employees := make([]Employee, 0, 16)
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			err := fmt.Errorf("could not scan row: %w", err)
			log.Error(err)
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

func (r *RepositoryImpl) UpdateTimer(ctx context.Context, studyId int, employee Employee) (Employee, error) {
	query := `UPDATE employee SET
				status = $1,
				start_time = $2,
				elapsed_ms = $3,
				paused_ms = $4,
				last_paused_at = $5,
				deleted = $6
			  WHERE study_id = $7 AND id = $8 RETURNING ` + employeeColumns
	updated, err := scanEmployee(r.getQueryer().QueryRow(ctx, query,
		string(employee.Status),
		employee.StartTime,
		employee.Elapsed.Milliseconds(),
		employee.PausedAccum.Milliseconds(),
		employee.LastPausedAt,
		employee.Deleted,
		studyId,
		employee.Id,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrEmployeeNotFound
	} else if err != nil {
		err := fmt.Errorf("could not update employee timer: %w", err)
		log.Error(err)
		return Employee{}, err
	}
	return updated, nil
}

func (r *RepositoryImpl) AppendLogEntry(ctx context.Context, studyId int, entry timelog.Entry) (timelog.Entry, error) {
	return timelog.InsertEntry(ctx, r.getQueryer(), studyId, entry)
}
