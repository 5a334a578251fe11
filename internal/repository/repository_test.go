package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"healthtrack-server/internal/models"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      conn,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestAppointmentRepository_FindByID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewAppointmentRepository(db)

	rows := sqlmock.NewRows([]string{"id", "patient_id", "professional_id", "date", "start_time", "end_time", "status"}).
		AddRow("apt-1", "p1", "d1", "2025-03-20", "10:00", "10:30", "scheduled")
	mock.ExpectQuery("SELECT (.+) FROM `appointments`").WillReturnRows(rows)

	a, err := repo.FindByID(context.Background(), "apt-1")
	require.NoError(t, err)
	assert.Equal(t, "apt-1", a.ID)
	assert.Equal(t, models.StatusScheduled, a.Status)
	assert.Equal(t, "10:30", a.EndTime)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentRepository_FindByID_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewAppointmentRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM `appointments`").WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAppointmentRepository_FindByID_Failure(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewAppointmentRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM `appointments`").WillReturnError(errors.New("connection reset"))

	_, err := repo.FindByID(context.Background(), "apt-1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestAppointmentRepository_Find(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewAppointmentRepository(db)

	rows := sqlmock.NewRows([]string{"id", "professional_id", "date", "start_time"}).
		AddRow("apt-1", "d1", "2025-03-20", "09:00").
		AddRow("apt-2", "d1", "2025-03-20", "10:00")
	mock.ExpectQuery("SELECT (.+) FROM `appointments` WHERE (.+)professional_id(.+)ORDER BY date asc,start_time asc").
		WillReturnRows(rows)

	list, err := repo.Find(context.Background(), AppointmentFilter{ProfessionalID: "d1", Date: "2025-03-20"})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "apt-1", list[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentRepository_Insert(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewAppointmentRepository(db)

	mock.ExpectExec("INSERT INTO `appointments`").WillReturnResult(sqlmock.NewResult(0, 1))

	a := &models.Appointment{PatientID: "p1", ProfessionalID: "d1", Date: "2025-03-20", StartTime: "10:00", EndTime: "10:30", Status: models.StatusScheduled}
	require.NoError(t, repo.Insert(context.Background(), a))
	assert.NotEmpty(t, a.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentRepository_UpdateStatus(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		want     bool
	}{
		{"status matched", 1, true},
		{"status moved", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := setupMockDB(t)
			repo := NewAppointmentRepository(db)

			mock.ExpectExec("UPDATE `appointments` SET (.+) WHERE (.+)status").
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			ok, err := repo.UpdateStatus(context.Background(), "apt-1", models.StatusScheduled, models.StatusConfirmed, time.Now())
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAppointmentRepository_Update(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewAppointmentRepository(db)

	mock.ExpectExec("UPDATE `appointments` SET").WillReturnResult(sqlmock.NewResult(0, 1))

	a := &models.Appointment{BaseModel: models.BaseModel{ID: "apt-1"}, PatientID: "p1", ProfessionalID: "d1", Date: "2025-03-21", StartTime: "11:00", EndTime: "11:30", Status: models.StatusScheduled}
	ok, err := repo.Update(context.Background(), a, models.StatusScheduled)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAppointmentRepository_Delete(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewAppointmentRepository(db)

	mock.ExpectExec("DELETE FROM `appointments`").WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.Delete(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUserRepository_CreateWithProfile(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `users`").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO `patient_profiles`").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	u := &models.User{
		Email:          "ana@example.com",
		Role:           models.RolePatient,
		PatientProfile: &models.PatientProfile{BirthDate: "1990-04-12"},
	}
	require.NoError(t, repo.Create(context.Background(), u))
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, u.ID, u.PatientProfile.UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_CreateDuplicate(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `users`").WillReturnError(&mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry"})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &models.User{Email: "ana@example.com", Role: models.RoleAdmin})
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByEmail_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM `users`").WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func patientWithProfile() *models.User {
	professionalID := "d1"
	return &models.User{
		BaseModel: models.BaseModel{ID: "u1"},
		Email:     "ana@example.com",
		Role:      models.RolePatient,
		PatientProfile: &models.PatientProfile{
			BaseModel:      models.BaseModel{ID: "pp1"},
			BirthDate:      "1990-04-12",
			ProfessionalID: &professionalID,
		},
	}
}

func TestUserRepository_UpdateWithProfile(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `users` SET").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE `patient_profiles` SET").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	u := patientWithProfile()
	require.NoError(t, repo.Update(context.Background(), u))
	assert.Equal(t, "u1", u.PatientProfile.UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdateRollsBack(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `users` SET").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE `patient_profiles` SET").WillReturnError(errors.New("lock wait timeout"))
	mock.ExpectRollback()

	err := repo.Update(context.Background(), patientWithProfile())
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_DeleteCascadesProfiles(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `patient_profiles` WHERE user_id").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM `professional_profiles` WHERE user_id").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM `users` WHERE id").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	deleted, err := repo.Delete(context.Background(), "u1")
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_DeleteMissing(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `patient_profiles`").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM `professional_profiles`").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM `users`").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	deleted, err := repo.Delete(context.Background(), "nobody")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestUserRepository_DeleteRollsBack(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `patient_profiles`").WillReturnError(errors.New("foreign key constraint fails"))
	mock.ExpectRollback()

	deleted, err := repo.Delete(context.Background(), "u1")
	require.Error(t, err)
	assert.False(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_ListPatientsOf(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)
	// The profile preloads run after the main query; their relative order is
	// not part of the contract.
	mock.MatchExpectationsInOrder(false)

	mock.ExpectQuery("SELECT (.+) FROM (.*)users(.*) JOIN patient_profiles ON (.+)professional_id").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "role"}).
			AddRow("u1", "ana@example.com", "patient"))
	mock.ExpectQuery("SELECT (.+) FROM `patient_profiles` WHERE").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "professional_id"}).
			AddRow("pp1", "u1", "d1"))
	mock.ExpectQuery("SELECT (.+) FROM `professional_profiles` WHERE").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id"}))

	users, err := repo.ListPatientsOf(context.Background(), "d1")
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "u1", users[0].ID)
	require.NotNil(t, users[0].PatientProfile)
	assert.Equal(t, "d1", *users[0].PatientProfile.ProfessionalID)
	assert.Nil(t, users[0].ProfessionalProfile)
	assert.NoError(t, mock.ExpectationsWereMet())
}
