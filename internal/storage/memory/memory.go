// Package memory provides the default, process-lifetime implementation of
// storage.Storage. Nothing is written to disk; a restart wipes all data.
//
// A single RWMutex guards the table. Update takes the write lock, hands fn
// a private copy of the state and swaps it in only when fn succeeds, so a
// failed transaction leaves no trace. View takes the read lock and reads
// the live state directly.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/aanand-mishra/student-records-api/internal/storage"
	"github.com/aanand-mishra/student-records-api/internal/types"
)

type state struct {
	students map[int64]types.Student
	order    []int64 // insertion order
	nextID   int64
}

func (s *state) clone() state {
	students := make(map[int64]types.Student, len(s.students))
	for id, st := range s.students {
		students[id] = st
	}
	return state{
		students: students,
		order:    slices.Clone(s.order),
		nextID:   s.nextID,
	}
}

// Memory is the in-memory implementation of storage.Storage.
type Memory struct {
	mu    sync.RWMutex
	state state
}

var _ storage.Storage = (*Memory)(nil)

// New returns an empty store whose first id will be 1.
func New() *Memory {
	return &Memory{
		state: state{
			students: make(map[int64]types.Student),
			order:    make([]int64, 0),
			nextID:   1,
		},
	}
}

// View runs fn under the read lock.
func (m *Memory) View(ctx context.Context, fn func(tx storage.Reader) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	return fn(&tx{state: &m.state})
}

// Update runs fn under the write lock against a copy of the state and
// commits the copy only if fn returns nil.
func (m *Memory) Update(ctx context.Context, fn func(tx storage.Writer) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	next := m.state.clone()
	if err := fn(&tx{state: &next}); err != nil {
		return err
	}
	m.state = next
	return nil
}

// Close is a no-op; the table lives as long as the process.
func (m *Memory) Close() error { return nil }

// tx operates on one state value; it is only valid inside View/Update.
type tx struct {
	state *state
}

func (t *tx) GetStudentByID(id int64) (types.Student, bool, error) {
	st, ok := t.state.students[id]
	return st, ok, nil
}

// Linear scans: uniqueness lookups are rare and the table is small. The
// store allows duplicate secondary keys, so a key->id index would not be
// one-to-one anyway.
func (t *tx) GetStudentByRollNumber(rollNumber string) (types.Student, bool, error) {
	return t.find(func(st types.Student) bool { return st.RollNumber == rollNumber })
}

func (t *tx) GetStudentByEmail(email string) (types.Student, bool, error) {
	return t.find(func(st types.Student) bool { return st.Email == email })
}

func (t *tx) find(match func(types.Student) bool) (types.Student, bool, error) {
	for _, id := range t.state.order {
		if st := t.state.students[id]; match(st) {
			return st, true, nil
		}
	}
	return types.Student{}, false, nil
}

func (t *tx) GetStudents() ([]types.Student, error) {
	students := make([]types.Student, 0, len(t.state.order))
	for _, id := range t.state.order {
		students = append(students, t.state.students[id])
	}
	return students, nil
}

func (t *tx) CreateStudent(in types.StudentInput) (types.Student, error) {
	id := t.state.nextID
	t.state.nextID++

	st := in.WithID(id)
	t.state.students[id] = st
	t.state.order = append(t.state.order, id)
	return st, nil
}

func (t *tx) UpdateStudentByID(id int64, in types.StudentInput) (types.Student, error) {
	if _, ok := t.state.students[id]; !ok {
		return types.Student{}, fmt.Errorf("UpdateStudentByID %d: %w", id, storage.ErrNotFound)
	}

	st := in.WithID(id)
	t.state.students[id] = st
	return st, nil
}

func (t *tx) DeleteStudentByID(id int64) error {
	if _, ok := t.state.students[id]; !ok {
		return fmt.Errorf("DeleteStudentByID %d: %w", id, storage.ErrNotFound)
	}

	delete(t.state.students, id)
	t.state.order = slices.DeleteFunc(t.state.order, func(v int64) bool { return v == id })
	return nil
}
