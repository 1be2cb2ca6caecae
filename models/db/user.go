package dbmodels

import (
	"blytzwork-backend/models"

	"github.com/pkg/errors"
)

type User struct {
	BaseModel
	FirebaseUID     string          `gorm:"type:varchar(128);uniqueIndex"`
	Email           string          `gorm:"type:varchar(255);uniqueIndex"`
	Role            models.UserRole `gorm:"type:varchar(20)"`
	DisplayName     string          `gorm:"type:varchar(255)"`
	ProfileComplete bool
	IsActive        bool
}

func (User) TableName() string {
	return "users"
}

func (u User) Validate() error {
	if u.FirebaseUID == "" {
		return errors.New("firebase uid is empty")
	}
	if u.Email == "" {
		return errors.New("email is empty")
	}
	return u.Role.Validate()
}

func (u User) ToActor() models.Actor {
	return models.Actor{
		UserID:          u.ID,
		FirebaseUID:     u.FirebaseUID,
		Email:           u.Email,
		Role:            u.Role,
		ProfileComplete: u.ProfileComplete,
	}
}
