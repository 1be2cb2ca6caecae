package dbmodels

import "time"

// MatchVote holds both sides' votes for a (job posting, VA profile) pair.
type MatchVote struct {
	JobPostingID  string `gorm:"primaryKey;type:varchar(36)"`
	VAProfileID   string `gorm:"column:va_profile_id;primaryKey;type:varchar(36)"`
	VoteByCompany *bool
	VoteByVA      *bool `gorm:"column:vote_by_va"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (MatchVote) TableName() string {
	return "match_votes"
}

func (v MatchVote) BothTrue() bool {
	return v.VoteByCompany != nil && *v.VoteByCompany &&
		v.VoteByVA != nil && *v.VoteByVA
}

type Match struct {
	BaseModel
	JobPostingID    string `gorm:"type:varchar(36);uniqueIndex:idx_matches_pair"`
	VAProfileID     string `gorm:"column:va_profile_id;type:varchar(36);uniqueIndex:idx_matches_pair"`
	ContactUnlocked bool
}

func (Match) TableName() string {
	return "matches"
}

type MatchExt struct {
	Match
	JobTitle      string
	CompanyID     string
	CompanyName   string
	CompanyUserID string
	VAName        string `gorm:"column:va_name"`
	VAUserID      string `gorm:"column:va_user_id"`
}

func (m MatchExt) IsParty(userID string) bool {
	return userID != "" && (m.CompanyUserID == userID || m.VAUserID == userID)
}

// OtherParty returns the user on the opposite side of the match.
func (m MatchExt) OtherParty(userID string) string {
	if m.CompanyUserID == userID {
		return m.VAUserID
	}
	return m.CompanyUserID
}
