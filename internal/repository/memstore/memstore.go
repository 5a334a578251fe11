// Package memstore keeps users and appointments in process memory. It
// satisfies the same contracts as the gorm repositories and backs the HTTP
// and seed tests.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"healthtrack-server/internal/models"
	"healthtrack-server/internal/repository"
)

// Users is an in-memory user directory.
type Users struct {
	mu   sync.RWMutex
	rows map[string]models.User
}

// NewUsers creates an empty Users.
func NewUsers() *Users {
	return &Users{rows: map[string]models.User{}}
}

func clone(u models.User) *models.User {
	if u.PatientProfile != nil {
		p := *u.PatientProfile
		if p.ProfessionalID != nil {
			id := *p.ProfessionalID
			p.ProfessionalID = &id
		}
		u.PatientProfile = &p
	}
	if u.ProfessionalProfile != nil {
		p := *u.ProfessionalProfile
		u.ProfessionalProfile = &p
	}
	return &u
}

func stamp(b *models.BaseModel, now time.Time) {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
}

func (s *Users) FindByID(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return clone(u), nil
}

func (s *Users) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.rows {
		if u.Email == email {
			return clone(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Users) collect(keep func(models.User) bool) []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.User, 0)
	for _, u := range s.rows {
		if keep(u) {
			out = append(out, *clone(u))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Surname != out[j].Surname {
			return out[i].Surname < out[j].Surname
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func (s *Users) ListByRoles(_ context.Context, roles ...models.Role) ([]models.User, error) {
	return s.collect(func(u models.User) bool {
		for _, r := range roles {
			if u.Role == r {
				return true
			}
		}
		return false
	}), nil
}

func (s *Users) ListPatientsOf(_ context.Context, professionalID string) ([]models.User, error) {
	return s.collect(func(u models.User) bool {
		p := u.PatientProfile
		return u.Role.IsPatient() && p != nil && p.ProfessionalID != nil && *p.ProfessionalID == professionalID
	}), nil
}

// Create stores user and its profile. The email must be unique.
func (s *Users) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.rows {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	now := time.Now()
	stamp(&user.BaseModel, now)
	if p := user.PatientProfile; p != nil {
		stamp(&p.BaseModel, now)
		p.UserID = user.ID
	}
	if p := user.ProfessionalProfile; p != nil {
		stamp(&p.BaseModel, now)
		p.UserID = user.ID
	}
	s.rows[user.ID] = *clone(*user)
	return nil
}

func (s *Users) Update(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[user.ID]; !ok {
		return repository.ErrNotFound
	}
	user.UpdatedAt = time.Now()
	s.rows[user.ID] = *clone(*user)
	return nil
}

func (s *Users) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return false, nil
	}
	delete(s.rows, id)
	return true, nil
}

// Appointments is an in-memory appointment table.
type Appointments struct {
	mu   sync.RWMutex
	rows map[string]models.Appointment
}

// NewAppointments creates an empty Appointments.
func NewAppointments() *Appointments {
	return &Appointments{rows: map[string]models.Appointment{}}
}

func (s *Appointments) filter(keep func(models.Appointment) bool) []models.Appointment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Appointment, 0)
	for _, a := range s.rows {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}

func (s *Appointments) FindAll(_ context.Context) ([]models.Appointment, error) {
	return s.filter(func(models.Appointment) bool { return true }), nil
}

func (s *Appointments) Find(_ context.Context, f repository.AppointmentFilter) ([]models.Appointment, error) {
	return s.filter(func(a models.Appointment) bool {
		return (f.PatientID == "" || a.PatientID == f.PatientID) &&
			(f.ProfessionalID == "" || a.ProfessionalID == f.ProfessionalID) &&
			(f.Date == "" || a.Date == f.Date)
	}), nil
}

func (s *Appointments) FindByID(_ context.Context, id string) (*models.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &a, nil
}

func (s *Appointments) Insert(_ context.Context, a *models.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stamp(&a.BaseModel, time.Now())
	s.rows[a.ID] = *a
	return nil
}

// Update replaces the row if its stored status still equals expected.
func (s *Appointments) Update(_ context.Context, a *models.Appointment, expected models.AppointmentStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.rows[a.ID]
	if !ok || cur.Status != expected {
		return false, nil
	}
	a.CreatedAt = cur.CreatedAt
	s.rows[a.ID] = *a
	return true, nil
}

// UpdateStatus moves the row from one status to another, failing if the
// stored status is no longer from.
func (s *Appointments) UpdateStatus(_ context.Context, id string, from, to models.AppointmentStatus, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.rows[id]
	if !ok || cur.Status != from {
		return false, nil
	}
	cur.Status = to
	cur.UpdatedAt = at
	s.rows[id] = cur
	return true, nil
}

func (s *Appointments) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return false, nil
	}
	delete(s.rows, id)
	return true, nil
}
