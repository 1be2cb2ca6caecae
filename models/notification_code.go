package models

type NotificationCode string

const (
	NotificationMatchCreated     NotificationCode = "MATCH_CREATED"
	NotificationProposalReceived NotificationCode = "PROPOSAL_RECEIVED"
	NotificationProposalAccepted NotificationCode = "PROPOSAL_ACCEPTED"
	NotificationProposalRejected NotificationCode = "PROPOSAL_REJECTED"
	NotificationContractCreated  NotificationCode = "CONTRACT_CREATED"
	NotificationContractStatus   NotificationCode = "CONTRACT_STATUS"
	NotificationMilestoneStatus  NotificationCode = "MILESTONE_STATUS"
	NotificationTimesheetStatus  NotificationCode = "TIMESHEET_STATUS"
	NotificationPaymentSucceeded NotificationCode = "PAYMENT_SUCCEEDED"
	NotificationPaymentFailed    NotificationCode = "PAYMENT_FAILED"
	NotificationPaymentRefunded  NotificationCode = "PAYMENT_REFUNDED"
	NotificationChatMessage      NotificationCode = "CHAT_MESSAGE"
	NotificationContactUnlocked  NotificationCode = "CONTACT_UNLOCKED"
)
