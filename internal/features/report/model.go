package report

import (
	"time"

	"go-civic/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReportStatus represents the lifecycle status of a citizen report
type ReportStatus string

const (
	StatusSubmitted    ReportStatus = "submitted"
	StatusAcknowledged ReportStatus = "acknowledged"
	StatusInProgress   ReportStatus = "in_progress"
	StatusResolved     ReportStatus = "resolved"
)

// IssueType classifies what kind of municipal issue was reported
type IssueType string

const (
	IssueWater       IssueType = "water"
	IssueRoad        IssueType = "road"
	IssueElectricity IssueType = "electricity"
	IssueSanitation  IssueType = "sanitation"
	IssueOther       IssueType = "other"
)

// Department is an organizational unit reports are routed to
type Department string

const (
	DeptWater       Department = "water"
	DeptRoads       Department = "roads"
	DeptElectricity Department = "electricity"
	DeptSanitation  Department = "sanitation"
	DeptGeneral     Department = "general"
)

// HistoryKind tags the variant of a status-history entry
type HistoryKind string

const (
	HistoryKindStatus         HistoryKind = "status"
	HistoryKindClassification HistoryKind = "classification"
	HistoryKindNote           HistoryKind = "note"
)

// ValidStatus reports whether s is one of the four lifecycle statuses.
func ValidStatus(s ReportStatus) bool {
	switch s {
	case StatusSubmitted, StatusAcknowledged, StatusInProgress, StatusResolved:
		return true
	}
	return false
}

// ValidIssueType reports whether t is one of the five issue types.
func ValidIssueType(t IssueType) bool {
	switch t {
	case IssueWater, IssueRoad, IssueElectricity, IssueSanitation, IssueOther:
		return true
	}
	return false
}

// GeoPoint is a latitude/longitude pair attached to a report.
type GeoPoint struct {
	Latitude  float64 `json:"latitude" bson:"latitude"`
	Longitude float64 `json:"longitude" bson:"longitude"`
}

// StatusHistoryEntry is one append-only audit entry on a report. Which fields
// are populated depends on Kind: status entries carry Status, classification
// entries carry Classification, note entries carry only Note. Entries are never
// removed or reordered once written.
type StatusHistoryEntry struct {
	Kind           HistoryKind  `json:"kind,omitempty" bson:"kind,omitempty"`
	Status         ReportStatus `json:"status,omitempty" bson:"status,omitempty"`
	Classification string       `json:"classification,omitempty" bson:"classification,omitempty"`
	Note           string       `json:"note,omitempty" bson:"note,omitempty"`
	ChangedBy      string       `json:"changed_by" bson:"changed_by"`
	ChangedAt      interface{}  `json:"changed_at" bson:"changed_at"`
}

// ChangedTime coerces the entry's instant; old clients wrote raw millis here.
func (e *StatusHistoryEntry) ChangedTime() (time.Time, error) {
	return utils.ToInstant(e.ChangedAt)
}

// Report is a citizen-submitted municipal issue record.
//
// Everything between UID and the location/media block is immutable after
// creation; status, classification and assignment mutate only through the
// lifecycle service, which pairs every field write with a history append.
// Timestamps are interface{} because documents written by older mobile clients
// carry epoch milliseconds instead of BSON dates; use the *Time accessors.
type Report struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UID         string             `json:"uid" bson:"uid"`
	Description string             `json:"description" bson:"description"`
	IssueType   IssueType          `json:"issue_type" bson:"issue_type"`
	IssueLabel  string             `json:"issue_label" bson:"issue_label"`
	CustomIssue string             `json:"custom_issue,omitempty" bson:"custom_issue,omitempty"`

	Location *GeoPoint `json:"location,omitempty" bson:"location,omitempty"`
	ImageURL string    `json:"image_url,omitempty" bson:"image_url,omitempty"`
	AudioURL string    `json:"audio_url,omitempty" bson:"audio_url,omitempty"`

	Status             ReportStatus `json:"status" bson:"status"`
	Classification     string       `json:"classification,omitempty" bson:"classification,omitempty"`
	ClassificationNote string       `json:"classification_note,omitempty" bson:"classification_note,omitempty"`

	AssignedDept Department `json:"assigned_dept,omitempty" bson:"assigned_dept,omitempty"`
	AssignedTo   string     `json:"assigned_to,omitempty" bson:"assigned_to,omitempty"`

	// Legacy documents stored the routing under "department"
	LegacyDepartment Department `json:"-" bson:"department,omitempty"`

	StatusHistory []StatusHistoryEntry `json:"status_history,omitempty" bson:"status_history,omitempty"`

	CreatedAt interface{} `json:"created_at" bson:"created_at"`
	UpdatedAt interface{} `json:"updated_at" bson:"updated_at"`
}

// CreatedTime coerces the creation instant.
func (r *Report) CreatedTime() (time.Time, error) {
	return utils.ToInstant(r.CreatedAt)
}

// UpdatedTime coerces the last-updated instant.
func (r *Report) UpdatedTime() (time.Time, error) {
	return utils.ToInstant(r.UpdatedAt)
}

// Dept returns the assigned department, falling back to the legacy field.
func (r *Report) Dept() Department {
	if r.AssignedDept != "" {
		return r.AssignedDept
	}
	return r.LegacyDepartment
}

// EffectiveIssueType maps unknown or missing types to "other".
func (r *Report) EffectiveIssueType() IssueType {
	if ValidIssueType(r.IssueType) {
		return r.IssueType
	}
	return IssueOther
}

// ResolvedEntry returns the first history entry marking the report resolved,
// or nil. First match is deliberate: a resolve/reopen/resolve sequence keeps
// reporting the original resolution instant.
func (r *Report) ResolvedEntry() *StatusHistoryEntry {
	for i := range r.StatusHistory {
		if r.StatusHistory[i].Status == StatusResolved {
			return &r.StatusHistory[i]
		}
	}
	return nil
}

// ResolutionHours computes hours from creation to first resolution. The second
// return is false when the report is unresolved, either timestamp is
// unparsable, or the resolution instant precedes creation (malformed data is
// skipped, never counted as negative time).
func (r *Report) ResolutionHours() (float64, bool) {
	entry := r.ResolvedEntry()
	if entry == nil {
		return 0, false
	}
	created, err := r.CreatedTime()
	if err != nil {
		return 0, false
	}
	resolved, err := entry.ChangedTime()
	if err != nil {
		return 0, false
	}
	if resolved.Before(created) {
		return 0, false
	}
	return resolved.Sub(created).Hours(), true
}
