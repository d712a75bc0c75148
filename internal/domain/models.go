package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel contains common fields for the tenant-owned source entities
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	TenantID  uuid.UUID `gorm:"type:uuid;not null;index;column:tenant_id"`
	CreatedAt time.Time `gorm:"not null"`
}

// BeforeCreate assigns an ID when the caller did not provide one
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// OpportunityStage represents the position of an opportunity in the sales funnel
type OpportunityStage string

const (
	StageQualifying    OpportunityStage = "QUALIFYING"
	StageNeedsAnalysis OpportunityStage = "NEEDS_ANALYSIS"
	StageProposal      OpportunityStage = "PROPOSAL"
	StageNegotiation   OpportunityStage = "NEGOTIATION"
	StageClosedWon     OpportunityStage = "CLOSED_WON"
	StageClosedLost    OpportunityStage = "CLOSED_LOST"
)

// FunnelStages is the fixed stage order used by funnel analysis
var FunnelStages = []OpportunityStage{
	StageQualifying,
	StageNeedsAnalysis,
	StageProposal,
	StageNegotiation,
	StageClosedWon,
}

// AllStages lists every stage in reporting order, lost last
var AllStages = []OpportunityStage{
	StageQualifying,
	StageNeedsAnalysis,
	StageProposal,
	StageNegotiation,
	StageClosedWon,
	StageClosedLost,
}

// IsValid checks if the stage is a known value
func (s OpportunityStage) IsValid() bool {
	return s.Index() >= 0
}

// IsClosed reports whether the stage is terminal
func (s OpportunityStage) IsClosed() bool {
	return s == StageClosedWon || s == StageClosedLost
}

// Index returns the position of the stage in AllStages, or -1 for unknown values
func (s OpportunityStage) Index() int {
	for i, stage := range AllStages {
		if stage == s {
			return i
		}
	}
	return -1
}

// FunnelIndex returns the position of the stage in FunnelStages, or -1
func (s OpportunityStage) FunnelIndex() int {
	for i, stage := range FunnelStages {
		if stage == s {
			return i
		}
	}
	return -1
}

// Opportunity is a potential sale tracked through the pipeline
type Opportunity struct {
	BaseModel
	CompanyID          uuid.UUID        `gorm:"type:uuid;not null;index;column:company_id"`
	AccountManagerID   uuid.UUID        `gorm:"type:uuid;not null;index;column:account_manager_id"`
	AccountManagerName string           `gorm:"type:varchar(200);column:account_manager_name"`
	Title              string           `gorm:"type:varchar(200);not null"`
	Stage              OpportunityStage `gorm:"type:varchar(50);not null;index"`
	Amount             float64          `gorm:"type:decimal(15,2);not null;default:0"`
	ExpectedAmount     float64          `gorm:"type:decimal(15,2);not null;default:0;column:expected_amount"`
	Probability        int              `gorm:"type:int;not null;default:0"`
	ExpectedCloseDate  *time.Time       `gorm:"column:expected_close_date"`
	ActualCloseDate    *time.Time       `gorm:"column:actual_close_date"`
}

// IsOpen reports whether the opportunity is still in the pipeline
func (o *Opportunity) IsOpen() bool {
	return !o.Stage.IsClosed()
}

// Value returns the canonical deal size: the booked amount once won,
// otherwise the current expected amount
func (o *Opportunity) Value() float64 {
	if o.Stage == StageClosedWon {
		return o.Amount
	}
	return o.ExpectedAmount
}

// WeightedValue returns the probability-weighted value of an open opportunity.
// Closed opportunities carry no weighted value.
func (o *Opportunity) WeightedValue() float64 {
	if !o.IsOpen() {
		return 0
	}
	return o.ExpectedAmount * float64(o.Probability) / 100
}

// StageHistory is an append-only record of an opportunity stage transition
type StageHistory struct {
	ID            uuid.UUID         `gorm:"type:uuid;primary_key"`
	TenantID      uuid.UUID         `gorm:"type:uuid;not null;index;column:tenant_id"`
	OpportunityID uuid.UUID         `gorm:"type:uuid;not null;index;column:opportunity_id"`
	FromStage     *OpportunityStage `gorm:"type:varchar(50);column:from_stage"`
	ToStage       OpportunityStage  `gorm:"type:varchar(50);not null;column:to_stage"`
	DurationDays  float64           `gorm:"type:decimal(10,2);not null;default:0;column:duration_days"`
	ChangedAt     time.Time         `gorm:"not null;index;column:changed_at"`
}

// TableName overrides the default table name to match the migration
func (StageHistory) TableName() string {
	return "opportunity_stage_history"
}

// BeforeCreate assigns an ID when the caller did not provide one
func (h *StageHistory) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}

// ProposalStatus represents the lifecycle state of a proposal
type ProposalStatus string

const (
	ProposalStatusDraft           ProposalStatus = "DRAFT"
	ProposalStatusPendingApproval ProposalStatus = "PENDING_APPROVAL"
	ProposalStatusApproved        ProposalStatus = "APPROVED"
	ProposalStatusSent            ProposalStatus = "SENT"
	ProposalStatusAccepted        ProposalStatus = "ACCEPTED"
	ProposalStatusRejected        ProposalStatus = "REJECTED"
	ProposalStatusExpired         ProposalStatus = "EXPIRED"
)

// ProposalStatuses lists proposal statuses in lifecycle order
var ProposalStatuses = []ProposalStatus{
	ProposalStatusDraft,
	ProposalStatusPendingApproval,
	ProposalStatusApproved,
	ProposalStatusSent,
	ProposalStatusAccepted,
	ProposalStatusRejected,
	ProposalStatusExpired,
}

// IsValid checks if the status is a known value
func (s ProposalStatus) IsValid() bool {
	for _, status := range ProposalStatuses {
		if status == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is possible
func (s ProposalStatus) IsTerminal() bool {
	return s == ProposalStatusAccepted || s == ProposalStatusRejected || s == ProposalStatusExpired
}

// Proposal is a priced offer sent against an opportunity
type Proposal struct {
	BaseModel
	OpportunityID   uuid.UUID      `gorm:"type:uuid;not null;index;column:opportunity_id"`
	TemplateID      *uuid.UUID     `gorm:"type:uuid;index;column:template_id"`
	Status          ProposalStatus `gorm:"type:varchar(50);not null;index"`
	TotalAmount     float64        `gorm:"type:decimal(15,2);not null;default:0;column:total_amount"`
	DiscountPercent float64        `gorm:"type:decimal(5,2);not null;default:0;column:discount_percent"`
	ApprovedAt      *time.Time     `gorm:"column:approved_at"`
}

// ActivityType represents the kind of customer interaction
type ActivityType string

const (
	ActivityTypeCall    ActivityType = "CALL"
	ActivityTypeEmail   ActivityType = "EMAIL"
	ActivityTypeMeeting ActivityType = "MEETING"
	ActivityTypeNote    ActivityType = "NOTE"
)

// IsValid checks if the activity type is a known value
func (t ActivityType) IsValid() bool {
	switch t {
	case ActivityTypeCall, ActivityTypeEmail, ActivityTypeMeeting, ActivityTypeNote:
		return true
	}
	return false
}

// Activity is an immutable logged or scheduled interaction with a customer
type Activity struct {
	BaseModel
	CompanyID uuid.UUID    `gorm:"type:uuid;not null;index;column:company_id"`
	ContactID *uuid.UUID   `gorm:"type:uuid;index;column:contact_id"`
	UserID    uuid.UUID    `gorm:"type:uuid;not null;index;column:user_id"`
	Type      ActivityType `gorm:"type:varchar(20);not null"`
	Subject   string       `gorm:"type:varchar(200)"`
	StartTime time.Time    `gorm:"not null;index;column:start_time"`
}

// Note is a free-text entry attached to a company
type Note struct {
	BaseModel
	CompanyID uuid.UUID  `gorm:"type:uuid;not null;index;column:company_id"`
	ContactID *uuid.UUID `gorm:"type:uuid;index;column:contact_id"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index;column:user_id"`
	Content   string     `gorm:"type:text"`
}

// Company is a customer organisation
type Company struct {
	BaseModel
	Name          string   `gorm:"type:varchar(200);not null"`
	Industry      string   `gorm:"type:varchar(100)"`
	EmployeeCount *int     `gorm:"column:employee_count"`
	HealthScore   *float64 `gorm:"type:decimal(5,2);column:health_score"`
	ChurnRisk     *string  `gorm:"type:varchar(20);column:churn_risk"`
}

// Contact is a person working at a company
type Contact struct {
	BaseModel
	CompanyID       uuid.UUID `gorm:"type:uuid;not null;index;column:company_id"`
	Name            string    `gorm:"type:varchar(200);not null"`
	Title           string    `gorm:"type:varchar(200)"`
	Email           string    `gorm:"type:varchar(255)"`
	IsDecisionMaker bool      `gorm:"not null;default:false;column:is_decision_maker"`
}

// Branch is a physical location of a company
type Branch struct {
	BaseModel
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index;column:company_id"`
	Name      string    `gorm:"type:varchar(200);not null"`
	City      string    `gorm:"type:varchar(100)"`
}

// ProjectStatus represents the delivery state of a project
type ProjectStatus string

const (
	ProjectStatusPlanning  ProjectStatus = "PLANNING"
	ProjectStatusActive    ProjectStatus = "ACTIVE"
	ProjectStatusCompleted ProjectStatus = "COMPLETED"
	ProjectStatusCancelled ProjectStatus = "CANCELLED"
)

// Project is delivery work performed for a company
type Project struct {
	BaseModel
	CompanyID uuid.UUID     `gorm:"type:uuid;not null;index;column:company_id"`
	Name      string        `gorm:"type:varchar(200);not null"`
	Status    ProjectStatus `gorm:"type:varchar(50);not null"`
}

// Invoice is a billed amount owed by a company
type Invoice struct {
	BaseModel
	CompanyID uuid.UUID  `gorm:"type:uuid;not null;index;column:company_id"`
	Amount    float64    `gorm:"type:decimal(15,2);not null;default:0"`
	DueDate   time.Time  `gorm:"not null;column:due_date"`
	PaidAt    *time.Time `gorm:"column:paid_at"`
}

// PaidOnTime reports whether the invoice was settled by its due date
func (i *Invoice) PaidOnTime() bool {
	return i.PaidAt != nil && !i.PaidAt.After(i.DueDate)
}

// TicketPriority represents the urgency of a support ticket
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "LOW"
	TicketPriorityMedium TicketPriority = "MEDIUM"
	TicketPriorityHigh   TicketPriority = "HIGH"
	TicketPriorityUrgent TicketPriority = "URGENT"
)

// TicketStatus represents whether a support ticket is still open
type TicketStatus string

const (
	TicketStatusOpen     TicketStatus = "OPEN"
	TicketStatusResolved TicketStatus = "RESOLVED"
)

// SupportTicket is a customer support case
type SupportTicket struct {
	BaseModel
	CompanyID uuid.UUID      `gorm:"type:uuid;not null;index;column:company_id"`
	Subject   string         `gorm:"type:varchar(200)"`
	Priority  TicketPriority `gorm:"type:varchar(20);not null"`
	Status    TicketStatus   `gorm:"type:varchar(20);not null"`
}

// IsEscalated reports whether the ticket has high or urgent priority
func (t *SupportTicket) IsEscalated() bool {
	return t.Priority == TicketPriorityHigh || t.Priority == TicketPriorityUrgent
}

// User is a sales team member that can own opportunities
type User struct {
	BaseModel
	TeamID *uuid.UUID `gorm:"type:uuid;index;column:team_id"`
	Name   string     `gorm:"type:varchar(200);not null"`
	Email  string     `gorm:"type:varchar(255)"`
}
