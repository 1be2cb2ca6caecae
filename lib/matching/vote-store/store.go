package votestore

import (
	"blytzwork-backend/models"
	dbmodels "blytzwork-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Provider interface {
	// Upsert sets one side's vote and leaves the other side untouched. Returns the stored row.
	Upsert(jobPostingID, vaProfileID string, side models.VoteSide, vote bool) (*dbmodels.MatchVote, error)
	Get(jobPostingID, vaProfileID string) (*dbmodels.MatchVote, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func sideColumn(side models.VoteSide) (string, error) {
	switch side {
	case models.VoteSideCompany:
		return "vote_by_company", nil
	case models.VoteSideVA:
		return "vote_by_va", nil
	default:
		return "", errors.Errorf("unknown vote side %q", side)
	}
}

func (i impl) Upsert(jobPostingID, vaProfileID string, side models.VoteSide, vote bool) (*dbmodels.MatchVote, error) {
	column, err := sideColumn(side)
	if err != nil {
		return nil, err
	}
	rec := dbmodels.MatchVote{
		JobPostingID: jobPostingID,
		VAProfileID:  vaProfileID,
	}
	switch side {
	case models.VoteSideCompany:
		rec.VoteByCompany = &vote
	case models.VoteSideVA:
		rec.VoteByVA = &vote
	}
	err = i.db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "job_posting_id"}, {Name: "va_profile_id"}},
			DoUpdates: clause.AssignmentColumns([]string{column, "updated_at"}),
		}).
		Create(&rec).
		Error
	if err != nil {
		return nil, err
	}
	stored, err := i.Get(jobPostingID, vaProfileID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, errors.New("vote not found after upsert")
	}
	return stored, nil
}

func (i impl) Get(jobPostingID, vaProfileID string) (*dbmodels.MatchVote, error) {
	rec := dbmodels.MatchVote{}
	err := i.db.
		Model(&dbmodels.MatchVote{}).
		Where("job_posting_id = ? AND va_profile_id = ?", jobPostingID, vaProfileID).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}
