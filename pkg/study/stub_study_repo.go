package study

import (
	"context"
	"sort"
	"time"
)

type StubStudyRepository struct {
	nextId int
	data   map[int]Study
}

func NewStubStudyRepository() *StubStudyRepository {
	return &StubStudyRepository{nextId: 0, data: map[int]Study{}}
}

func (s *StubStudyRepository) CreateStudy(ctx context.Context, study Study) (Study, error) {
	s.nextId++
	study.Id = s.nextId
	if study.CreatedAt.IsZero() {
		study.CreatedAt = time.Now()
	}
	s.data[study.Id] = study
	return study, nil
}

func (s *StubStudyRepository) GetStudy(ctx context.Context, id int) (Study, error) {
	found, ok := s.data[id]
	if !ok {
		return Study{}, ErrStudyNotFound
	}
	return found, nil
}

func (s *StubStudyRepository) GetStudyByUid(ctx context.Context, uid string) (Study, error) {
	for _, found := range s.data {
		if found.Uid == uid {
			return found, nil
		}
	}
	return Study{}, ErrStudyNotFound
}

func (s *StubStudyRepository) UpdateStudy(ctx context.Context, studyId int, study Study) (Study, error) {
	existing, ok := s.data[studyId]
	if !ok {
		return Study{}, ErrStudyNotFound
	}
	study.Id = existing.Id
	study.Uid = existing.Uid
	study.CreatedAt = existing.CreatedAt
	s.data[studyId] = study
	return study, nil
}

func (s *StubStudyRepository) GetAllStudies(ctx context.Context) ([]Study, error) {
	studies := make([]Study, 0, len(s.data))
	for _, found := range s.data {
		studies = append(studies, found)
	}
	sort.Slice(studies, func(i, j int) bool {
		return studies[i].Id < studies[j].Id
	})
	return studies, nil
}
