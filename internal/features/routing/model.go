package routing

import (
	"time"

	"go-civic/internal/features/report"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// defaultDeptForIssue is the fixed issue-type to department mapping applied
// when no scripted rule claims a report.
var defaultDeptForIssue = map[report.IssueType]report.Department{
	report.IssueWater:       report.DeptWater,
	report.IssueRoad:        report.DeptRoads,
	report.IssueElectricity: report.DeptElectricity,
	report.IssueSanitation:  report.DeptSanitation,
	report.IssueOther:       report.DeptGeneral,
}

// RoutingRule is an operator-defined override evaluated before the fixed
// mapping. Script is a tengo program receiving the report document as
// `report` and exporting `dept`; an empty or failing script falls through.
type RoutingRule struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	Script      string             `json:"script" bson:"script"`
	IsActive    bool               `json:"is_active" bson:"is_active"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}
