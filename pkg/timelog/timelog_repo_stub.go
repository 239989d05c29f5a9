package timelog

import (
	"context"
	"sort"
	"sync"
)

type RepositoryStub struct {
	mu      sync.RWMutex
	entries map[int]Entry
	studies map[int]int // entry id -> study id
	nextId  int
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{
		entries: make(map[int]Entry),
		studies: make(map[int]int),
		nextId:  1,
	}
}

func (r *RepositoryStub) AppendEntry(ctx context.Context, studyId int, entry Entry) (Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry.Id = r.nextId
	r.nextId++
	r.entries[entry.Id] = entry
	r.studies[entry.Id] = studyId
	return entry, nil
}

func (r *RepositoryStub) ListEntries(ctx context.Context, studyId int) ([]Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries := make([]Entry, 0, len(r.entries))
	for id, entry := range r.entries {
		if r.studies[id] == studyId {
			entries = append(entries, entry)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].At.Equal(entries[j].At) {
			return entries[i].Id < entries[j].Id
		}
		return entries[i].At.Before(entries[j].At)
	})
	return entries, nil
}

func (r *RepositoryStub) AnnotateEntry(ctx context.Context, studyId int, entryId int, annotation Annotation) (Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[entryId]
	if !ok || r.studies[entryId] != studyId {
		return Entry{}, ErrEntryNotFound
	}
	entry.ReasonCode = annotation.ReasonCode
	entry.Comment = annotation.Comment
	r.entries[entryId] = entry
	return entry, nil
}

func (r *RepositoryStub) DeleteEntry(ctx context.Context, studyId int, entryId int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[entryId]; !ok || r.studies[entryId] != studyId {
		return ErrEntryNotFound
	}
	delete(r.entries, entryId)
	delete(r.studies, entryId)
	return nil
}

func (r *RepositoryStub) DeleteAllEntries(ctx context.Context, studyId int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id := range r.entries {
		if r.studies[id] == studyId {
			delete(r.entries, id)
			delete(r.studies, id)
			removed++
		}
	}
	return removed, nil
}

func (r *RepositoryStub) Cleanup() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = make(map[int]Entry)
	r.studies = make(map[int]int)
	r.nextId = 1
}
