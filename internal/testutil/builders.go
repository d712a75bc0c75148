package testutil

import (
	"time"

	"github.com/google/uuid"
	"github.com/straye-as/crm-analytics/internal/domain"
)

// Fixed tenant ids used across tests
var (
	TenantA = uuid.MustParse("0b7c1a52-3f2e-4d8a-9c1e-5a6b7c8d9e01")
	TenantB = uuid.MustParse("0b7c1a52-3f2e-4d8a-9c1e-5a6b7c8d9e02")
)

// Date returns midnight UTC of the given day
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Clock returns a time source fixed at t
func Clock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// Dataset is a set of entity records that can be served by a MemoryStore
// or seeded into a database
type Dataset struct {
	Companies     []domain.Company
	Users         []domain.User
	Contacts      []domain.Contact
	Branches      []domain.Branch
	Opportunities []domain.Opportunity
	StageHistory  []domain.StageHistory
	Proposals     []domain.Proposal
	Activities    []domain.Activity
	Notes         []domain.Note
	Projects      []domain.Project
	Invoices      []domain.Invoice
	Tickets       []domain.SupportTicket
}

func base(tenantID uuid.UUID, createdAt time.Time) domain.BaseModel {
	return domain.BaseModel{ID: uuid.New(), TenantID: tenantID, CreatedAt: createdAt}
}

// AddCompany appends a company and returns its id
func (d *Dataset) AddCompany(tenantID uuid.UUID, name, industry string, createdAt time.Time) uuid.UUID {
	c := domain.Company{BaseModel: base(tenantID, createdAt), Name: name, Industry: industry}
	d.Companies = append(d.Companies, c)
	return c.ID
}

// AddUser appends an account manager and returns its id
func (d *Dataset) AddUser(tenantID uuid.UUID, teamID *uuid.UUID, name string) uuid.UUID {
	u := domain.User{BaseModel: base(tenantID, Date(2020, 1, 1)), TeamID: teamID, Name: name}
	d.Users = append(d.Users, u)
	return u.ID
}

// AddOpportunity appends an opportunity valued at value. Won opportunities
// book value as Amount, all others carry it as ExpectedAmount.
func (d *Dataset) AddOpportunity(tenantID, companyID, managerID uuid.UUID, stage domain.OpportunityStage, value float64, probability int, createdAt time.Time) uuid.UUID {
	o := domain.Opportunity{
		BaseModel:        base(tenantID, createdAt),
		CompanyID:        companyID,
		AccountManagerID: managerID,
		Title:            string(stage) + " deal",
		Stage:            stage,
		ExpectedAmount:   value,
		Probability:      probability,
	}
	if stage == domain.StageClosedWon {
		o.Amount = value
	}
	d.Opportunities = append(d.Opportunities, o)
	return o.ID
}

// Opportunity returns a pointer to the stored opportunity with id, for
// setting optional fields
func (d *Dataset) Opportunity(id uuid.UUID) *domain.Opportunity {
	for i := range d.Opportunities {
		if d.Opportunities[i].ID == id {
			return &d.Opportunities[i]
		}
	}
	return nil
}

// Company returns a pointer to the stored company with id
func (d *Dataset) Company(id uuid.UUID) *domain.Company {
	for i := range d.Companies {
		if d.Companies[i].ID == id {
			return &d.Companies[i]
		}
	}
	return nil
}

// AddTransition appends a stage history entry
func (d *Dataset) AddTransition(tenantID, opportunityID uuid.UUID, from *domain.OpportunityStage, to domain.OpportunityStage, durationDays float64, changedAt time.Time) {
	d.StageHistory = append(d.StageHistory, domain.StageHistory{
		ID:            uuid.New(),
		TenantID:      tenantID,
		OpportunityID: opportunityID,
		FromStage:     from,
		ToStage:       to,
		DurationDays:  durationDays,
		ChangedAt:     changedAt,
	})
}

// AddProposal appends a proposal and returns its id
func (d *Dataset) AddProposal(tenantID, opportunityID uuid.UUID, templateID *uuid.UUID, status domain.ProposalStatus, total, discount float64, createdAt time.Time) uuid.UUID {
	p := domain.Proposal{
		BaseModel:       base(tenantID, createdAt),
		OpportunityID:   opportunityID,
		TemplateID:      templateID,
		Status:          status,
		TotalAmount:     total,
		DiscountPercent: discount,
	}
	d.Proposals = append(d.Proposals, p)
	return p.ID
}

// AddActivity appends an activity and returns its id
func (d *Dataset) AddActivity(tenantID, companyID, userID uuid.UUID, activityType domain.ActivityType, subject string, start time.Time) uuid.UUID {
	a := domain.Activity{
		BaseModel: base(tenantID, start),
		CompanyID: companyID,
		UserID:    userID,
		Type:      activityType,
		Subject:   subject,
		StartTime: start,
	}
	d.Activities = append(d.Activities, a)
	return a.ID
}

// AddNote appends a note and returns its id
func (d *Dataset) AddNote(tenantID, companyID, userID uuid.UUID, content string, createdAt time.Time) uuid.UUID {
	n := domain.Note{
		BaseModel: base(tenantID, createdAt),
		CompanyID: companyID,
		UserID:    userID,
		Content:   content,
	}
	d.Notes = append(d.Notes, n)
	return n.ID
}

// AddContact appends a contact and returns its id
func (d *Dataset) AddContact(tenantID, companyID uuid.UUID, name string, decisionMaker bool) uuid.UUID {
	c := domain.Contact{
		BaseModel:       base(tenantID, Date(2020, 1, 1)),
		CompanyID:       companyID,
		Name:            name,
		Email:           "contact@example.com",
		IsDecisionMaker: decisionMaker,
	}
	d.Contacts = append(d.Contacts, c)
	return c.ID
}

// AddBranch appends a branch and returns its id
func (d *Dataset) AddBranch(tenantID, companyID uuid.UUID, name, city string) uuid.UUID {
	b := domain.Branch{BaseModel: base(tenantID, Date(2020, 1, 1)), CompanyID: companyID, Name: name, City: city}
	d.Branches = append(d.Branches, b)
	return b.ID
}

// AddProject appends a project
func (d *Dataset) AddProject(tenantID, companyID uuid.UUID, status domain.ProjectStatus) {
	d.Projects = append(d.Projects, domain.Project{
		BaseModel: base(tenantID, Date(2020, 1, 1)),
		CompanyID: companyID,
		Name:      string(status) + " project",
		Status:    status,
	})
}

// AddInvoice appends an invoice, paidAt nil meaning unpaid
func (d *Dataset) AddInvoice(tenantID, companyID uuid.UUID, amount float64, due time.Time, paidAt *time.Time) {
	d.Invoices = append(d.Invoices, domain.Invoice{
		BaseModel: base(tenantID, due.AddDate(0, 0, -30)),
		CompanyID: companyID,
		Amount:    amount,
		DueDate:   due,
		PaidAt:    paidAt,
	})
}

// AddTicket appends a support ticket
func (d *Dataset) AddTicket(tenantID, companyID uuid.UUID, priority domain.TicketPriority, status domain.TicketStatus) {
	d.Tickets = append(d.Tickets, domain.SupportTicket{
		BaseModel: base(tenantID, Date(2020, 1, 1)),
		CompanyID: companyID,
		Subject:   string(priority) + " ticket",
		Priority:  priority,
		Status:    status,
	})
}

// StagePtr returns a pointer to s
func StagePtr(s domain.OpportunityStage) *domain.OpportunityStage {
	return &s
}

// TimePtr returns a pointer to t
func TimePtr(t time.Time) *time.Time {
	return &t
}
