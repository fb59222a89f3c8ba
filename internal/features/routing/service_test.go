package routing

import (
	"context"
	"testing"

	"go-civic/internal/features/report"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fakeRuleRepo struct {
	rules []RoutingRule
}

func (f *fakeRuleRepo) Create(ctx context.Context, rule *RoutingRule) error {
	f.rules = append(f.rules, *rule)
	return nil
}

func (f *fakeRuleRepo) FindActive(ctx context.Context) ([]RoutingRule, error) {
	return f.rules, nil
}

func (f *fakeRuleRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	return nil
}

// fakeAssignmentRepo implements just the assignment write; the embedded
// interface panics on anything else, which would flag an unexpected call.
type fakeAssignmentRepo struct {
	report.ReportRepository
	assigned map[primitive.ObjectID]report.Department
}

func (f *fakeAssignmentRepo) UpdateAssignment(ctx context.Context, id primitive.ObjectID, dept *report.Department, assignee *string) error {
	if f.assigned == nil {
		f.assigned = make(map[primitive.ObjectID]report.Department)
	}
	if dept != nil {
		f.assigned[id] = *dept
	}
	return nil
}

func newRoutingFixture(rules ...RoutingRule) (*fakeAssignmentRepo, RoutingService) {
	reportRepo := &fakeAssignmentRepo{}
	svc := NewRoutingService(&fakeRuleRepo{rules: rules}, reportRepo, zap.NewNop())
	return reportRepo, svc
}

func TestResolveDeptFixedMapping(t *testing.T) {
	_, svc := newRoutingFixture()
	ctx := context.Background()

	tests := []struct {
		issue report.IssueType
		want  report.Department
	}{
		{report.IssueWater, report.DeptWater},
		{report.IssueRoad, report.DeptRoads},
		{report.IssueElectricity, report.DeptElectricity},
		{report.IssueSanitation, report.DeptSanitation},
		{report.IssueOther, report.DeptGeneral},
		{report.IssueType("unknown"), report.DeptGeneral},
	}

	for _, tt := range tests {
		r := &report.Report{IssueType: tt.issue}
		if got := svc.ResolveDept(ctx, r); got != tt.want {
			t.Errorf("ResolveDept(%s) = %s, want %s", tt.issue, got, tt.want)
		}
	}
}

func TestResolveDeptScriptedRule(t *testing.T) {
	rule := RoutingRule{
		Name:     "flooding goes to water",
		IsActive: true,
		Script: `
			if report.issue_type == "road" && report.description == "flooded underpass" {
				dept = "water"
			}
		`,
	}
	_, svc := newRoutingFixture(rule)
	ctx := context.Background()

	matched := &report.Report{IssueType: report.IssueRoad, Description: "flooded underpass"}
	if got := svc.ResolveDept(ctx, matched); got != report.DeptWater {
		t.Errorf("rule should override: got %s, want water", got)
	}

	unmatched := &report.Report{IssueType: report.IssueRoad, Description: "pothole"}
	if got := svc.ResolveDept(ctx, unmatched); got != report.DeptRoads {
		t.Errorf("rule pass should fall back to mapping: got %s, want roads", got)
	}
}

func TestResolveDeptIgnoresBadRules(t *testing.T) {
	broken := RoutingRule{Name: "broken", IsActive: true, Script: `dept = (`}
	wrongValue := RoutingRule{Name: "wrong value", IsActive: true, Script: `dept = "parks"`}
	_, svc := newRoutingFixture(broken, wrongValue)

	r := &report.Report{IssueType: report.IssueWater}
	if got := svc.ResolveDept(context.Background(), r); got != report.DeptWater {
		t.Errorf("bad rules should be skipped: got %s, want water", got)
	}
}

func TestRouteReport(t *testing.T) {
	repo, svc := newRoutingFixture()
	ctx := context.Background()

	unrouted := &report.Report{ID: primitive.NewObjectID(), IssueType: report.IssueSanitation}
	if err := svc.RouteReport(ctx, unrouted); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.assigned[unrouted.ID] != report.DeptSanitation {
		t.Errorf("assigned = %s, want sanitation", repo.assigned[unrouted.ID])
	}

	routed := &report.Report{ID: primitive.NewObjectID(), IssueType: report.IssueWater, AssignedDept: report.DeptGeneral}
	if err := svc.RouteReport(ctx, routed); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := repo.assigned[routed.ID]; ok {
		t.Error("already-routed report must not be reassigned")
	}
}
