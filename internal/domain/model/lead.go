package model

import "time"

type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusContacted LeadStatus = "contacted"
	LeadStatusQualified LeadStatus = "qualified"
	LeadStatusClosed    LeadStatus = "closed"
)

// Lead is one prospect row in the lead list.
type Lead struct {
	ID          string
	Name        string
	Email       string
	Company     string
	Title       string
	LinkedInURL string
	Status      LeadStatus
	Source      string
	Notes       string
	CreatedAt   time.Time
}
