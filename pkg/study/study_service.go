package study

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidTimezone = errors.New("invalid timezone")
var ErrNameRequired = errors.New("study name is required")

type Service interface {
	GetCurrentStudy(ctx context.Context) (Study, error)
	CreateStudy(ctx context.Context, study Study) (Study, error)
	UpdateStudy(ctx context.Context, study Study) (Study, error)
	GetStudyByUid(ctx context.Context, uid string) (Study, error)
	GetAllStudies(ctx context.Context) ([]Study, error)
}

type StudyServiceImpl struct {
	repo Repo
}

func NewStudyService(repo Repo) *StudyServiceImpl {
	return &StudyServiceImpl{repo: repo}
}

func (s *StudyServiceImpl) GetCurrentStudy(ctx context.Context) (Study, error) {
	studyId, err := CurrentId(ctx)
	if err != nil {
		return Study{}, fmt.Errorf("failed to get current study: %w", err)
	}
	return s.repo.GetStudy(ctx, studyId)
}

func (s *StudyServiceImpl) CreateStudy(ctx context.Context, study Study) (Study, error) {
	if err := validate(&study); err != nil {
		return Study{}, err
	}
	study.Uid = uuid.NewString()
	return s.repo.CreateStudy(ctx, study)
}

func (s *StudyServiceImpl) UpdateStudy(ctx context.Context, study Study) (Study, error) {
	studyId, err := CurrentId(ctx)
	if err != nil {
		return Study{}, fmt.Errorf("failed to get current study: %w", err)
	}
	if err := validate(&study); err != nil {
		return Study{}, err
	}
	return s.repo.UpdateStudy(ctx, studyId, study)
}

func (s *StudyServiceImpl) GetStudyByUid(ctx context.Context, uid string) (Study, error) {
	return s.repo.GetStudyByUid(ctx, uid)
}

func (s *StudyServiceImpl) GetAllStudies(ctx context.Context) ([]Study, error) {
	return s.repo.GetAllStudies(ctx)
}

func validate(study *Study) error {
	study.Name = strings.TrimSpace(study.Name)
	if study.Name == "" {
		return ErrNameRequired
	}
	if study.Timezone == "" {
		study.Timezone = "UTC"
	}
	if _, err := time.LoadLocation(study.Timezone); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidTimezone, study.Timezone)
	}
	return nil
}
