package scheduling

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"healthtrack-server/internal/models"
	"healthtrack-server/internal/repository"
)

// memStore is an in-memory Store used by the service tests.
type memStore struct {
	mu     sync.Mutex
	seq    int
	rows   map[string]models.Appointment
	writes int
}

func newMemStore() *memStore {
	return &memStore{rows: map[string]models.Appointment{}}
}

func (m *memStore) FindAll(_ context.Context) ([]models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Appointment
	for _, a := range m.rows {
		out = append(out, a)
	}
	return out, nil
}

func (m *memStore) FindByID(_ context.Context, id string) (*models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &a, nil
}

func (m *memStore) Find(_ context.Context, f repository.AppointmentFilter) ([]models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Appointment
	for _, a := range m.rows {
		if f.PatientID != "" && a.PatientID != f.PatientID {
			continue
		}
		if f.ProfessionalID != "" && a.ProfessionalID != f.ProfessionalID {
			continue
		}
		if f.Date != "" && a.Date != f.Date {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (m *memStore) Insert(_ context.Context, a *models.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	m.writes++
	a.ID = fmt.Sprintf("apt-%d", m.seq)
	now := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	a.CreatedAt, a.UpdatedAt = now, now
	m.rows[a.ID] = *a
	return nil
}

func (m *memStore) Update(_ context.Context, a *models.Appointment, expected models.AppointmentStatus) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.rows[a.ID]
	if !ok || cur.Status != expected {
		return false, nil
	}
	m.writes++
	m.rows[a.ID] = *a
	return true, nil
}

func (m *memStore) UpdateStatus(_ context.Context, id string, from, to models.AppointmentStatus, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.rows[id]
	if !ok || cur.Status != from {
		return false, nil
	}
	m.writes++
	cur.Status = to
	cur.UpdatedAt = at
	m.rows[id] = cur
	return true, nil
}

func (m *memStore) Delete(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return false, nil
	}
	m.writes++
	delete(m.rows, id)
	return true, nil
}

// memUsers is an in-memory Users directory.
type memUsers map[string]models.User

func (m memUsers) FindByID(_ context.Context, id string) (*models.User, error) {
	u, ok := m[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func testUsers() memUsers {
	users := memUsers{}
	for id, role := range map[string]models.Role{
		"p1": models.RolePatient,
		"p2": models.RolePatient,
		"d1": models.RoleProfessional,
		"d2": models.RoleProfessional,
		"a1": models.RoleAdmin,
	} {
		users[id] = models.User{BaseModel: models.BaseModel{ID: id}, Role: role, Email: id + "@example.com"}
	}
	return users
}

// MockStore is a testify mock of Store for failure paths.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) FindAll(ctx context.Context) ([]models.Appointment, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]models.Appointment)
	return list, args.Error(1)
}

func (m *MockStore) FindByID(ctx context.Context, id string) (*models.Appointment, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(*models.Appointment)
	return a, args.Error(1)
}

func (m *MockStore) Find(ctx context.Context, f repository.AppointmentFilter) ([]models.Appointment, error) {
	args := m.Called(ctx, f)
	list, _ := args.Get(0).([]models.Appointment)
	return list, args.Error(1)
}

func (m *MockStore) Insert(ctx context.Context, a *models.Appointment) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockStore) Update(ctx context.Context, a *models.Appointment, expected models.AppointmentStatus) (bool, error) {
	args := m.Called(ctx, a, expected)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) UpdateStatus(ctx context.Context, id string, from, to models.AppointmentStatus, at time.Time) (bool, error) {
	args := m.Called(ctx, id, from, to, at)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}
