package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IssueCategory enum
type IssueCategory string

const (
	CategoryPothole     IssueCategory = "pothole"
	CategoryStreetlight IssueCategory = "streetlight"
	CategoryTrash       IssueCategory = "trash"
	CategoryWater       IssueCategory = "water"
	CategoryOther       IssueCategory = "other"
)

// IssueStatus enum. No transition table is enforced: any valid status may
// follow any other.
type IssueStatus string

const (
	StatusPending             IssueStatus = "pending"
	StatusInProgress          IssueStatus = "in-progress"
	StatusResolved            IssueStatus = "resolved"
	StatusRejected            IssueStatus = "rejected"
	StatusClaimed             IssueStatus = "claimed"
	StatusCommunityInProgress IssueStatus = "community-in-progress"
	StatusSolved              IssueStatus = "solved"
)

// ClaimStatus enum
type ClaimStatus string

const (
	ClaimNone                ClaimStatus = "none"
	ClaimClaimed             ClaimStatus = "claimed"
	ClaimCommunityInProgress ClaimStatus = "community-in-progress"
	ClaimSolved              ClaimStatus = "solved"
)

// Priority enum
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Location of a reported issue
type Location struct {
	Latitude  float64 `bson:"latitude" json:"latitude"`
	Longitude float64 `bson:"longitude" json:"longitude"`
	Address   string  `bson:"address" json:"address"`
}

// Attachment is a file stored under the uploads path and linked to an issue
type Attachment struct {
	URL         string `bson:"url" json:"url"`
	Filename    string `bson:"filename" json:"filename"`
	ContentType string `bson:"contentType" json:"contentType"`
}

// StatusChange is one entry of the append-only status history
type StatusChange struct {
	Status    IssueStatus `bson:"status" json:"status"`
	Timestamp time.Time   `bson:"timestamp" json:"timestamp"`
	Actor     string      `bson:"actor" json:"actor"`
}

// IssueUpdate is one entry of the append-only free-text update trail
type IssueUpdate struct {
	Text      string    `bson:"text" json:"text"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
	Actor     string    `bson:"actor" json:"actor"`
}

// Issue represents a civic issue reported by a citizen.
// statusHistory and updates are append-only: existing entries are never
// mutated or removed, and Status always mirrors the most recently appended
// history entry.
type Issue struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Title         string              `bson:"title" json:"title"`
	Description   string              `bson:"description" json:"description"`
	Category      IssueCategory       `bson:"category" json:"category"`
	Status        IssueStatus         `bson:"status" json:"status"`
	Location      Location            `bson:"location" json:"location"`
	ReporterName  string              `bson:"reporterName" json:"reporterName"`
	ReporterEmail string              `bson:"reporterEmail,omitempty" json:"reporterEmail,omitempty"`
	VerifiedCount int64               `bson:"verifiedCount" json:"verifiedCount"`
	Priority      Priority            `bson:"priority" json:"priority"`
	Attachments   []Attachment        `bson:"attachments" json:"attachments"`
	StatusHistory []StatusChange      `bson:"statusHistory" json:"statusHistory"`
	Updates       []IssueUpdate       `bson:"updates" json:"updates"`
	ClaimedByNGO  string              `bson:"claimedByNgo" json:"claimedByNgo"`
	ClaimStatus   ClaimStatus         `bson:"claimStatus" json:"claimStatus"`
	Escalated     bool                `bson:"escalated" json:"escalated"`
	EventID       *primitive.ObjectID `bson:"eventId,omitempty" json:"eventId,omitempty"`
	CreatedAt     time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// NewIssue builds a fresh issue in its initial state: status pending, empty
// history and update trails, no claim.
func NewIssue(title, description string, category IssueCategory, loc Location, reporterName, reporterEmail string, priority Priority, now time.Time) Issue {
	if priority == "" {
		priority = PriorityMedium
	}
	return Issue{
		ID:            primitive.NewObjectID(),
		Title:         title,
		Description:   description,
		Category:      category,
		Status:        StatusPending,
		Location:      loc,
		ReporterName:  reporterName,
		ReporterEmail: reporterEmail,
		Priority:      priority,
		Attachments:   []Attachment{},
		StatusHistory: []StatusChange{},
		Updates:       []IssueUpdate{},
		ClaimStatus:   ClaimNone,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// ApplyStatus sets the issue status and appends the matching history entry.
// The returned entry is what callers push into the store.
func (i *Issue) ApplyStatus(status IssueStatus, actor string, now time.Time) StatusChange {
	change := StatusChange{Status: status, Timestamp: now, Actor: actor}
	i.Status = status
	i.StatusHistory = append(i.StatusHistory, change)
	i.UpdatedAt = now
	return change
}

// ApplyClaim records an NGO taking responsibility for the issue. The claim
// fields and the status move together in one observable state.
func (i *Issue) ApplyClaim(ngoName string, now time.Time) StatusChange {
	i.ClaimedByNGO = ngoName
	i.ClaimStatus = ClaimClaimed
	return i.ApplyStatus(StatusCommunityInProgress, ngoName, now)
}

// AddUpdate appends a free-text entry to the update trail.
func (i *Issue) AddUpdate(text, actor string, now time.Time) IssueUpdate {
	update := IssueUpdate{Text: text, Timestamp: now, Actor: actor}
	i.Updates = append(i.Updates, update)
	i.UpdatedAt = now
	return update
}

// EscalationAge is how long an issue may stay pending before the escalation
// scanner picks it up.
const EscalationAge = 10 * 24 * time.Hour

// EscalationCutoff returns the reportedAt boundary for escalation at a given
// point in time.
func EscalationCutoff(now time.Time) time.Time {
	return now.Add(-EscalationAge)
}

// Escalatable reports whether the issue qualifies for escalation: still
// pending and older than the cutoff.
func (i *Issue) Escalatable(now time.Time) bool {
	return i.Status == StatusPending && !i.CreatedAt.After(EscalationCutoff(now))
}

// IsSolvedStatus reports whether a status counts toward an NGO's solved total.
func IsSolvedStatus(s IssueStatus) bool {
	return s == StatusSolved || s == StatusResolved
}

// ShouldCreditSolved reports whether the transition that left the issue in
// its current status earns ngoName credit for solving it: the status counts
// as solved and the issue is claimed by that NGO.
func (i *Issue) ShouldCreditSolved(ngoName string) bool {
	return IsSolvedStatus(i.Status) && i.ClaimedByNGO != "" && i.ClaimedByNGO == ngoName
}

var validCategories = map[IssueCategory]bool{
	CategoryPothole:     true,
	CategoryStreetlight: true,
	CategoryTrash:       true,
	CategoryWater:       true,
	CategoryOther:       true,
}

var validStatuses = map[IssueStatus]bool{
	StatusPending:             true,
	StatusInProgress:          true,
	StatusResolved:            true,
	StatusRejected:            true,
	StatusClaimed:             true,
	StatusCommunityInProgress: true,
	StatusSolved:              true,
}

var validPriorities = map[Priority]bool{
	PriorityLow:    true,
	PriorityMedium: true,
	PriorityHigh:   true,
}

func ValidCategory(s string) bool { return validCategories[IssueCategory(s)] }

func ValidStatus(s string) bool { return validStatuses[IssueStatus(s)] }

func ValidPriority(s string) bool { return validPriorities[Priority(s)] }
