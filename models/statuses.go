package models

type JobPostingStatus string

const (
	JobPostingStatusOpen   JobPostingStatus = "open"
	JobPostingStatusClosed JobPostingStatus = "closed"
)

type EmploymentType string

const (
	EmploymentFullTime EmploymentType = "full_time"
	EmploymentPartTime EmploymentType = "part_time"
	EmploymentContract EmploymentType = "contract"
)

func (e EmploymentType) IsValid() bool {
	switch e {
	case EmploymentFullTime, EmploymentPartTime, EmploymentContract:
		return true
	}
	return false
}

type ProposalStatus string

const (
	ProposalStatusPending   ProposalStatus = "pending"
	ProposalStatusAccepted  ProposalStatus = "accepted"
	ProposalStatusRejected  ProposalStatus = "rejected"
	ProposalStatusWithdrawn ProposalStatus = "withdrawn"
)

type ContractType string

const (
	ContractTypeFixed  ContractType = "fixed"
	ContractTypeHourly ContractType = "hourly"
)

func (t ContractType) IsValid() bool {
	return t == ContractTypeFixed || t == ContractTypeHourly
}

type ContractStatus string

const (
	ContractStatusActive    ContractStatus = "active"
	ContractStatusCompleted ContractStatus = "completed"
	ContractStatusCancelled ContractStatus = "cancelled"
)

type MilestoneStatus string

const (
	MilestoneStatusPending   MilestoneStatus = "pending"
	MilestoneStatusSubmitted MilestoneStatus = "submitted"
	MilestoneStatusApproved  MilestoneStatus = "approved"
	MilestoneStatusPaid      MilestoneStatus = "paid"
)

var milestoneFlow = map[MilestoneStatus]MilestoneStatus{
	MilestoneStatusPending:   MilestoneStatusSubmitted,
	MilestoneStatusSubmitted: MilestoneStatusApproved,
	MilestoneStatusApproved:  MilestoneStatusPaid,
}

// Next returns the only status a milestone may move to, or "" for a final status.
func (s MilestoneStatus) Next() MilestoneStatus {
	return milestoneFlow[s]
}

type TimesheetStatus string

const (
	TimesheetStatusSubmitted TimesheetStatus = "submitted"
	TimesheetStatusApproved  TimesheetStatus = "approved"
	TimesheetStatusRejected  TimesheetStatus = "rejected"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusSucceeded PaymentStatus = "succeeded"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// CanTransitionTo allows pending -> succeeded|failed and succeeded -> refunded.
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	switch s {
	case PaymentStatusPending:
		return next == PaymentStatusSucceeded || next == PaymentStatusFailed
	case PaymentStatusSucceeded:
		return next == PaymentStatusRefunded
	case PaymentStatusFailed, PaymentStatusRefunded:
		return false
	}
	return false
}

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusSucceeded, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

type PaymentPurpose string

const (
	PaymentPurposeContactUnlock PaymentPurpose = "contact_unlock"
	PaymentPurposeMilestone     PaymentPurpose = "milestone"
)

type VoteSide string

const (
	VoteSideCompany VoteSide = "company"
	VoteSideVA      VoteSide = "va"
)

type FileKind string

const (
	FileKindAvatar    FileKind = "avatar"
	FileKindResume    FileKind = "resume"
	FileKindPortfolio FileKind = "portfolio"
	FileKindLogo      FileKind = "logo"
)

var fileKindContentTypes = map[FileKind][]string{
	FileKindAvatar:    {"image/jpeg", "image/png", "image/webp"},
	FileKindLogo:      {"image/jpeg", "image/png", "image/webp", "image/svg+xml"},
	FileKindResume:    {"application/pdf", "application/msword", "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
	FileKindPortfolio: {"application/pdf", "image/jpeg", "image/png", "video/mp4"},
}

func (k FileKind) IsValid() bool {
	_, ok := fileKindContentTypes[k]
	return ok
}

func (k FileKind) AllowsContentType(contentType string) bool {
	for _, item := range fileKindContentTypes[k] {
		if item == contentType {
			return true
		}
	}
	return false
}
