package study

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

var ErrStudyNotFound = errors.New("study not found")

type Repo interface {
	CreateStudy(ctx context.Context, study Study) (Study, error)
	GetStudy(ctx context.Context, id int) (Study, error)
	GetStudyByUid(ctx context.Context, uid string) (Study, error)
	UpdateStudy(ctx context.Context, studyId int, study Study) (Study, error)
	GetAllStudies(ctx context.Context) ([]Study, error)
}

type StudyRepoImpl struct {
	db *pgxpool.Pool
}

func NewStudyRepo(db *pgxpool.Pool) *StudyRepoImpl {
	return &StudyRepoImpl{db: db}
}

const studyColumns = `id, uid, name, observer, location, timezone, notes, created_at`

func scanStudy(row pgx.Row) (Study, error) {
	var s Study
	err := row.Scan(&s.Id, &s.Uid, &s.Name, &s.Observer, &s.Location, &s.Timezone, &s.Notes, &s.CreatedAt)
	return s, err
}

func (r *StudyRepoImpl) CreateStudy(ctx context.Context, study Study) (Study, error) {
	query := `INSERT INTO study (uid, name, observer, location, timezone, notes)
				VALUES ($1, $2, $3, $4, $5, $6) RETURNING ` + studyColumns
	created, err := scanStudy(r.db.QueryRow(ctx, query,
		study.Uid,
		study.Name,
		study.Observer,
		study.Location,
		study.Timezone,
		study.Notes,
	))
	if err != nil {
		log.Errorf("failed to create study: %v", err)
		return Study{}, err
	}
	return created, nil
}

func (r *StudyRepoImpl) GetStudy(ctx context.Context, id int) (Study, error) {
	query := `SELECT ` + studyColumns + ` FROM study WHERE id = $1`
	s, err := scanStudy(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		log.Debugf("study with id %d not found", id)
		return Study{}, ErrStudyNotFound
	} else if err != nil {
		log.Errorf("failed to get study: %v", err)
		return Study{}, err
	}
	return s, nil
}

func (r *StudyRepoImpl) GetStudyByUid(ctx context.Context, uid string) (Study, error) {
	query := `SELECT ` + studyColumns + ` FROM study WHERE uid = $1`
	s, err := scanStudy(r.db.QueryRow(ctx, query, uid))
	if errors.Is(err, pgx.ErrNoRows) {
		log.Infof("study with uid %s not found", uid)
		return Study{}, ErrStudyNotFound
	} else if err != nil {
		log.Errorf("failed to get study: %v", err)
		return Study{}, err
	}
	return s, nil
}

func (r *StudyRepoImpl) UpdateStudy(ctx context.Context, studyId int, study Study) (Study, error) {
	query := `UPDATE study SET name = $1, observer = $2, location = $3, timezone = $4, notes = $5
				WHERE id = $6 RETURNING ` + studyColumns
	updated, err := scanStudy(r.db.QueryRow(ctx, query,
		study.Name,
		study.Observer,
		study.Location,
		study.Timezone,
		study.Notes,
		studyId,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return Study{}, ErrStudyNotFound
	} else if err != nil {
		err := fmt.Errorf("could not update study: %w", err)
		log.Error(err)
		return Study{}, err
	}
	return updated, nil
}

func (r *StudyRepoImpl) GetAllStudies(ctx context.Context) ([]Study, error) {
	query := `SELECT ` + studyColumns + ` FROM study ORDER BY id`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not query studies: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	studies := make([]Study, 0, 10)
	for rows.Next() {
		s, err := scanStudy(rows)
		if err != nil {
			err := fmt.Errorf("could not scan row: %w", err)
			log.Error(err)
			return nil, err
		}
		studies = append(studies, s)
	}
	return studies, rows.Err()
}
