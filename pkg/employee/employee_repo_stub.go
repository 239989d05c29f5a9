package employee

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/timestudy/timestudy/pkg/timelog"
)

type stubRow struct {
	studyId  int
	employee Employee
}

// RepositoryStub keeps employees in memory and appends log entries to a timelog.RepositoryStub.
type RepositoryStub struct {
	mu      sync.RWMutex
	rows    map[int]stubRow
	nextId  int
	timeLog *timelog.RepositoryStub
	// entries appended inside a running transaction, flushed on commit
	pending []pendingEntry
	inTx    bool
}

type pendingEntry struct {
	studyId int
	entry   timelog.Entry
}

func NewRepositoryStub(timeLog *timelog.RepositoryStub) *RepositoryStub {
	return &RepositoryStub{
		rows:    make(map[int]stubRow),
		nextId:  1,
		timeLog: timeLog,
	}
}

func (r *RepositoryStub) WithTransaction(ctx context.Context, fn func(repo Repository) error) error {
	r.mu.Lock()
	original := make(map[int]stubRow, len(r.rows))
	for k, v := range r.rows {
		original[k] = v
	}
	originalNextId := r.nextId
	r.inTx = true
	r.pending = nil
	r.mu.Unlock()

	err := fn(r)

	r.mu.Lock()
	pending := r.pending
	r.pending = nil
	r.inTx = false
	if err != nil {
		r.rows = original
		r.nextId = originalNextId
		r.mu.Unlock()
		return err
	}
	r.mu.Unlock()

	for _, p := range pending {
		if _, err := r.timeLog.AppendEntry(ctx, p.studyId, p.entry); err != nil {
			return err
		}
	}
	return nil
}

func (r *RepositoryStub) CreateEmployee(ctx context.Context, studyId int, employee Employee) (Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	employee.Id = r.nextId
	r.nextId++
	employee.Status = StatusIdle
	if employee.CreatedAt.IsZero() {
		employee.CreatedAt = time.Now()
	}
	r.rows[employee.Id] = stubRow{studyId: studyId, employee: employee}
	return employee, nil
}

func (r *RepositoryStub) GetEmployee(ctx context.Context, studyId int, id int) (Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	row, ok := r.rows[id]
	if !ok || row.studyId != studyId {
		return Employee{}, ErrEmployeeNotFound
	}
	return row.employee, nil
}

func (r *RepositoryStub) ListEmployees(ctx context.Context, studyId int, includeDeleted bool) ([]Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	employees := make([]Employee, 0, len(r.rows))
	for _, row := range r.rows {
		if row.studyId != studyId || (row.employee.Deleted && !includeDeleted) {
			continue
		}
		employees = append(employees, row.employee)
	}
	sort.Slice(employees, func(i, j int) bool {
		return employees[i].Id < employees[j].Id
	})
	return employees, nil
}

func (r *RepositoryStub) UpdateTimer(ctx context.Context, studyId int, employee Employee) (Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[employee.Id]
	if !ok || row.studyId != studyId {
		return Employee{}, ErrEmployeeNotFound
	}
	employee.Name = row.employee.Name
	employee.CreatedAt = row.employee.CreatedAt
	r.rows[employee.Id] = stubRow{studyId: studyId, employee: employee}
	return employee, nil
}

func (r *RepositoryStub) AppendLogEntry(ctx context.Context, studyId int, entry timelog.Entry) (timelog.Entry, error) {
	r.mu.Lock()
	if r.inTx {
		r.pending = append(r.pending, pendingEntry{studyId: studyId, entry: entry})
		r.mu.Unlock()
		return entry, nil
	}
	r.mu.Unlock()
	return r.timeLog.AppendEntry(ctx, studyId, entry)
}

// Put stores an employee as is, for tests that need a specific timer state.
func (r *RepositoryStub) Put(studyId int, employee Employee) Employee {
	r.mu.Lock()
	defer r.mu.Unlock()
	if employee.Id == 0 {
		employee.Id = r.nextId
		r.nextId++
	} else if employee.Id >= r.nextId {
		r.nextId = employee.Id + 1
	}
	r.rows[employee.Id] = stubRow{studyId: studyId, employee: employee}
	return employee
}
