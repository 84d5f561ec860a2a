package store

import "time"

type ProjectStatus string

const (
	ProjectPlanning  ProjectStatus = "planning"
	ProjectActive    ProjectStatus = "active"
	ProjectPaused    ProjectStatus = "paused"
	ProjectCompleted ProjectStatus = "completed"
	ProjectChurned   ProjectStatus = "churned"
)

type Project struct {
	ID            string
	Name          string
	Status        ProjectStatus
	Phase         string
	ContractValue *float64
}

type LeadTier string

const (
	TierSoftball   LeadTier = "SOFTBALL"
	TierMedium     LeadTier = "MEDIUM"
	TierHard       LeadTier = "HARD"
	TierDisqualify LeadTier = "DISQUALIFY"
)

type Lead struct {
	ID        string
	Name      string
	Company   string
	Status    string
	Tier      LeadTier
	Source    string
	CreatedAt time.Time
}

type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskBlocked    TaskStatus = "blocked"
	TaskShipped    TaskStatus = "shipped"
)

type TaskPriority string

const (
	PriorityUrgent TaskPriority = "urgent"
	PriorityHigh   TaskPriority = "high"
	PriorityMedium TaskPriority = "medium"
	PriorityLow    TaskPriority = "low"
)

type Task struct {
	ID        string
	Title     string
	Status    TaskStatus
	Priority  TaskPriority
	ProjectID string
}

type RevenueEntry struct {
	ID          string
	Amount      float64
	Collected   bool
	Source      string
	Description string
	Date        time.Time
}

type ExpenseEntry struct {
	ID          string
	Amount      float64
	Vendor      string
	Category    string
	Description string
	Date        time.Time
}

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// ApprovalRequest is the one record the bot mutates: a single
// pending -> approved|rejected transition, after which it is terminal.
type ApprovalRequest struct {
	ID          string
	ActionType  string
	Description string
	RiskLevel   RiskLevel
	Status      ApprovalStatus
	ReviewedBy  string
	ReviewedAt  *time.Time
	Payload     string
	CreatedAt   time.Time
}
