package authapimodels

import (
	"time"

	"blytzwork-backend/models"
	apimodels "blytzwork-backend/models/api"
	dbmodels "blytzwork-backend/models/db"

	"github.com/pkg/errors"
)

type SyncRequest struct {
	Role        models.UserRole `json:"role" validate:"required"`
	DisplayName string          `json:"display_name" validate:"max=255"`
}

func (r SyncRequest) Validate() error {
	if err := apimodels.ValidateStruct(r); err != nil {
		return err
	}
	if err := r.Role.Validate(); err != nil {
		return err
	}
	if !r.Role.IsSelfAssignable() {
		return errors.Errorf("role %v can not be selected", r.Role)
	}
	return nil
}

type UserView struct {
	ID              string          `json:"id"`
	Email           string          `json:"email"`
	Role            models.UserRole `json:"role"`
	RoleName        string          `json:"role_name"`
	DisplayName     string          `json:"display_name"`
	ProfileComplete bool            `json:"profile_complete"`
	CreatedAt       time.Time       `json:"created_at"`
}

func UserConvert(rec dbmodels.User) UserView {
	return UserView{
		ID:              rec.ID,
		Email:           rec.Email,
		Role:            rec.Role,
		RoleName:        rec.Role.ToHuman(),
		DisplayName:     rec.DisplayName,
		ProfileComplete: rec.ProfileComplete,
		CreatedAt:       rec.CreatedAt,
	}
}

type SyncResponse struct {
	User    UserView `json:"user"`
	Created bool     `json:"created"`
}
