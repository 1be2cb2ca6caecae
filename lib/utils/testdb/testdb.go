// Package testdb opens an isolated in-memory SQLite database migrated with the production models.
package testdb

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"blytzwork-backend/db"
	"blytzwork-backend/models"
	dbmodels "blytzwork-backend/models/db"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func New(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=0", uuid.NewString())
	tx, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := tx.DB()
	require.NoError(t, err)
	// a single connection keeps the shared in-memory database alive and serializes writers
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	require.NoError(t, db.AutoMigrateDB(tx))
	return tx
}

func CreateUser(t *testing.T, tx *gorm.DB, role models.UserRole, email string) dbmodels.User {
	t.Helper()
	rec := dbmodels.User{
		FirebaseUID:     "fb-" + uuid.NewString(),
		Email:           email,
		Role:            role,
		DisplayName:     strings.Split(email, "@")[0],
		ProfileComplete: true,
		IsActive:        true,
	}
	require.NoError(t, tx.Create(&rec).Error)
	return rec
}

func CreateCompany(t *testing.T, tx *gorm.DB, email, name string) (dbmodels.User, dbmodels.Company) {
	t.Helper()
	user := CreateUser(t, tx, models.UserRoleCompany, email)
	rec := dbmodels.Company{
		UserID:       user.ID,
		Name:         name,
		Country:      "US",
		ContactEmail: email,
		Phone:        "+1-555-0100",
	}
	require.NoError(t, tx.Create(&rec).Error)
	return user, rec
}

func CreateVA(t *testing.T, tx *gorm.DB, email, name, country string, rate float64, available bool) (dbmodels.User, dbmodels.VAProfile) {
	t.Helper()
	user := CreateUser(t, tx, models.UserRoleVA, email)
	rec := dbmodels.VAProfile{
		UserID:       user.ID,
		Name:         name,
		Country:      country,
		HourlyRate:   rate,
		Skills:       []string{"support"},
		Availability: available,
	}
	require.NoError(t, tx.Create(&rec).Error)
	return user, rec
}

func CreateJob(t *testing.T, tx *gorm.DB, companyID, title string) dbmodels.JobPosting {
	t.Helper()
	rec := dbmodels.JobPosting{
		CompanyID:      companyID,
		Title:          title,
		Description:    title + " description",
		Skills:         []string{"support"},
		EmploymentType: models.EmploymentPartTime,
		RateMin:        5,
		RateMax:        15,
		Status:         models.JobPostingStatusOpen,
	}
	require.NoError(t, tx.Create(&rec).Error)
	// distinct created_at values keep "newest first" ordering deterministic
	time.Sleep(2 * time.Millisecond)
	return rec
}

func CreateMatch(t *testing.T, tx *gorm.DB, jobPostingID, vaProfileID string) dbmodels.Match {
	t.Helper()
	rec := dbmodels.Match{
		JobPostingID: jobPostingID,
		VAProfileID:  vaProfileID,
	}
	require.NoError(t, tx.Create(&rec).Error)
	return rec
}

func CreateContract(t *testing.T, tx *gorm.DB, job dbmodels.JobPosting, vaProfileID string, contractType models.ContractType, amount, rate float64) dbmodels.Contract {
	t.Helper()
	rec := dbmodels.Contract{
		JobPostingID: job.ID,
		CompanyID:    job.CompanyID,
		VAProfileID:  vaProfileID,
		Title:        job.Title,
		Type:         contractType,
		Amount:       amount,
		HourlyRate:   rate,
		StartDate:    time.Now().UTC().Truncate(24 * time.Hour),
		Status:       models.ContractStatusActive,
	}
	require.NoError(t, tx.Create(&rec).Error)
	return rec
}

func CreateMilestone(t *testing.T, tx *gorm.DB, contractID, title string, amount float64, status models.MilestoneStatus) dbmodels.Milestone {
	t.Helper()
	rec := dbmodels.Milestone{
		ContractID: contractID,
		Title:      title,
		Amount:     amount,
		Status:     status,
	}
	require.NoError(t, tx.Create(&rec).Error)
	return rec
}
