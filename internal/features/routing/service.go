package routing

import (
	"context"

	"go-civic/internal/features/report"

	"github.com/d5/tengo/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// RoutingService auto-assigns a department to newly submitted reports the way
// the mobile intake pipeline expects: active scripted rules get first claim,
// then the fixed issue-type mapping. Reports arriving with a department
// already routed are left alone.
type RoutingService interface {
	RouteReport(ctx context.Context, r *report.Report) error
	ResolveDept(ctx context.Context, r *report.Report) report.Department

	CreateRule(ctx context.Context, rule *RoutingRule) error
	ListActiveRules(ctx context.Context) ([]RoutingRule, error)
	DeleteRule(ctx context.Context, id primitive.ObjectID) error
}

// RoutingServiceImpl implements RoutingService
type RoutingServiceImpl struct {
	RuleRepo   RoutingRuleRepository
	ReportRepo report.ReportRepository
	Logger     *zap.Logger
}

// NewRoutingService creates a new routing service
func NewRoutingService(ruleRepo RoutingRuleRepository, reportRepo report.ReportRepository, logger *zap.Logger) RoutingService {
	return &RoutingServiceImpl{
		RuleRepo:   ruleRepo,
		ReportRepo: reportRepo,
		Logger:     logger,
	}
}

// RouteReport writes the resolved department onto an unrouted report. Like
// manual assignment updates, auto-routing sets the field without appending a
// history entry.
func (s *RoutingServiceImpl) RouteReport(ctx context.Context, r *report.Report) error {
	if r.Dept() != "" {
		return nil
	}

	dept := s.ResolveDept(ctx, r)
	if err := s.ReportRepo.UpdateAssignment(ctx, r.ID, &dept, nil); err != nil {
		s.Logger.Error("auto-assignment failed",
			zap.String("report_id", r.ID.Hex()),
			zap.Error(err))
		return err
	}

	s.Logger.Info("report auto-assigned",
		zap.String("report_id", r.ID.Hex()),
		zap.String("dept", string(dept)))
	return nil
}

// ResolveDept evaluates active rules in creation order, falling back to the
// fixed issue-type mapping. Rule failures are logged and skipped; routing
// never blocks on a bad script.
func (s *RoutingServiceImpl) ResolveDept(ctx context.Context, r *report.Report) report.Department {
	rules, err := s.RuleRepo.FindActive(ctx)
	if err != nil {
		s.Logger.Warn("routing rule lookup failed", zap.Error(err))
		rules = nil
	}

	for i := range rules {
		dept, ok := s.runRule(&rules[i], r)
		if ok {
			return dept
		}
	}

	if dept, ok := defaultDeptForIssue[r.IssueType]; ok {
		return dept
	}
	return report.DeptGeneral
}

// runRule executes one tengo rule script against the report document. The
// script sees `report` and exports its decision through `dept`; anything
// other than a valid department string means the rule passes.
func (s *RoutingServiceImpl) runRule(rule *RoutingRule, r *report.Report) (report.Department, bool) {
	if rule.Script == "" {
		return "", false
	}

	script := tengo.NewScript([]byte(rule.Script))

	script.Add("report", map[string]interface{}{
		"issue_type":   string(r.IssueType),
		"issue_label":  r.IssueLabel,
		"description":  r.Description,
		"custom_issue": r.CustomIssue,
	})
	script.Add("dept", "")

	compiled, err := script.Compile()
	if err != nil {
		s.Logger.Warn("routing rule failed to compile",
			zap.String("rule", rule.Name),
			zap.Error(err))
		return "", false
	}

	if err := compiled.Run(); err != nil {
		s.Logger.Warn("routing rule failed to run",
			zap.String("rule", rule.Name),
			zap.Error(err))
		return "", false
	}

	dept := report.Department(compiled.Get("dept").String())
	switch dept {
	case report.DeptWater, report.DeptRoads, report.DeptElectricity, report.DeptSanitation, report.DeptGeneral:
		return dept, true
	}
	return "", false
}

func (s *RoutingServiceImpl) CreateRule(ctx context.Context, rule *RoutingRule) error {
	return s.RuleRepo.Create(ctx, rule)
}

func (s *RoutingServiceImpl) ListActiveRules(ctx context.Context) ([]RoutingRule, error) {
	return s.RuleRepo.FindActive(ctx)
}

func (s *RoutingServiceImpl) DeleteRule(ctx context.Context, id primitive.ObjectID) error {
	return s.RuleRepo.Delete(ctx, id)
}
