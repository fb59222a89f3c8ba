package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-civic/internal/features/notification"
	"go-civic/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type fakeReportRepo struct {
	reports map[primitive.ObjectID]*Report

	statusCalls         int
	assignmentCalls     int
	classificationCalls int
	noteCalls           int
}

func newFakeReportRepo(reports ...*Report) *fakeReportRepo {
	repo := &fakeReportRepo{reports: make(map[primitive.ObjectID]*Report)}
	for _, r := range reports {
		if r.ID.IsZero() {
			r.ID = primitive.NewObjectID()
		}
		repo.reports[r.ID] = r
	}
	return repo
}

func (f *fakeReportRepo) FindLatest(ctx context.Context, limit int64) ([]Report, error) {
	out := []Report{}
	for _, r := range f.reports {
		out = append(out, *r)
	}
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeReportRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*Report, error) {
	r, ok := f.reports[id]
	if !ok {
		return nil, ErrReportNotFound
	}
	found := *r
	return &found, nil
}

func (f *fakeReportRepo) FindForSupervisor(ctx context.Context, dept Department, uid string) ([]Report, error) {
	out := []Report{}
	for _, r := range f.reports {
		if r.Dept() == dept || r.AssignedTo == uid {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeReportRepo) FindUnresolvedOlderThan(ctx context.Context, cutoff time.Time) ([]Report, error) {
	out := []Report{}
	for _, r := range f.reports {
		created, err := r.CreatedTime()
		if err != nil {
			continue
		}
		if r.Status != StatusResolved && created.Before(cutoff) {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeReportRepo) FindResolvedSince(ctx context.Context, since time.Time) ([]Report, error) {
	return nil, nil
}

func (f *fakeReportRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, status ReportStatus, entry StatusHistoryEntry) error {
	r, ok := f.reports[id]
	if !ok {
		return ErrReportNotFound
	}
	f.statusCalls++
	r.Status = status
	r.StatusHistory = append(r.StatusHistory, entry)
	return nil
}

func (f *fakeReportRepo) UpdateAssignment(ctx context.Context, id primitive.ObjectID, dept *Department, assignee *string) error {
	r, ok := f.reports[id]
	if !ok {
		return ErrReportNotFound
	}
	f.assignmentCalls++
	if dept != nil {
		r.AssignedDept = *dept
	}
	if assignee != nil {
		r.AssignedTo = *assignee
	}
	return nil
}

func (f *fakeReportRepo) UpdateClassification(ctx context.Context, id primitive.ObjectID, classification, note string, entry StatusHistoryEntry) error {
	r, ok := f.reports[id]
	if !ok {
		return ErrReportNotFound
	}
	f.classificationCalls++
	r.Classification = classification
	r.ClassificationNote = note
	r.StatusHistory = append(r.StatusHistory, entry)
	return nil
}

func (f *fakeReportRepo) AppendNote(ctx context.Context, id primitive.ObjectID, entry StatusHistoryEntry) error {
	r, ok := f.reports[id]
	if !ok {
		return ErrReportNotFound
	}
	f.noteCalls++
	r.StatusHistory = append(r.StatusHistory, entry)
	return nil
}

func (f *fakeReportRepo) Watch(ctx context.Context) (*mongo.ChangeStream, error) {
	return nil, errors.New("not supported")
}

type fakeNotifier struct {
	created []notification.Kind
}

func (f *fakeNotifier) CreateNotification(ctx context.Context, recipientUID, title, body string, kind notification.Kind, reportID string) error {
	f.created = append(f.created, kind)
	return nil
}

func (f *fakeNotifier) CreateOnce(ctx context.Context, recipientUID, title, body string, kind notification.Kind, reportID string) error {
	f.created = append(f.created, kind)
	return nil
}

func (f *fakeNotifier) ListForRecipient(ctx context.Context, uid string, limit int64) ([]notification.Notification, error) {
	return nil, nil
}

func (f *fakeNotifier) MarkRead(ctx context.Context, id string, uid string) error {
	return nil
}

func newTestService(repo ReportRepository, notifier notification.NotificationService) *ReportServiceImpl {
	return &ReportServiceImpl{
		Repo:                repo,
		NotificationService: notifier,
		Version:             NewSnapshotVersion(),
		Logger:              zap.NewNop(),
		ListLimit:           100,
	}
}

func adminClaims() *utils.UserClaims {
	return &utils.UserClaims{UID: "admin-1", Role: "admin"}
}

func supervisorClaims() *utils.UserClaims {
	return &utils.UserClaims{UID: "sup-1", Role: "supervisor", Dept: "roads"}
}

func TestUpdateStatusAppendsHistory(t *testing.T) {
	rep := &Report{Status: StatusSubmitted, UID: "citizen-1"}
	repo := newFakeReportRepo(rep)
	svc := newTestService(repo, &fakeNotifier{})

	err := svc.UpdateStatus(context.Background(), adminClaims(), rep.ID.Hex(), StatusAcknowledged, "on it")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rep.Status != StatusAcknowledged {
		t.Errorf("status = %s, want acknowledged", rep.Status)
	}
	if len(rep.StatusHistory) != 1 {
		t.Fatalf("history entries = %d, want 1", len(rep.StatusHistory))
	}
	entry := rep.StatusHistory[0]
	if entry.Kind != HistoryKindStatus || entry.Status != StatusAcknowledged || entry.ChangedBy != "admin-1" {
		t.Errorf("unexpected history entry: %+v", entry)
	}
	if repo.statusCalls != 1 {
		t.Errorf("status write calls = %d, want 1", repo.statusCalls)
	}
}

func TestUpdateStatusValidation(t *testing.T) {
	rep := &Report{Status: StatusSubmitted}
	repo := newFakeReportRepo(rep)
	svc := newTestService(repo, &fakeNotifier{})
	ctx := context.Background()

	if err := svc.UpdateStatus(ctx, nil, rep.ID.Hex(), StatusResolved, ""); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("nil principal: got %v, want ErrUnauthenticated", err)
	}
	if err := svc.UpdateStatus(ctx, adminClaims(), rep.ID.Hex(), "archived", ""); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("bad status: got %v, want ErrInvalidStatus", err)
	}
	if err := svc.UpdateStatus(ctx, adminClaims(), "not-an-id", StatusResolved, ""); err == nil {
		t.Error("malformed id should fail")
	}
	if err := svc.UpdateStatus(ctx, adminClaims(), primitive.NewObjectID().Hex(), StatusResolved, ""); !errors.Is(err, ErrReportNotFound) {
		t.Errorf("missing report: got %v, want ErrReportNotFound", err)
	}
	if repo.statusCalls != 0 {
		t.Errorf("rejected mutations should not write, got %d calls", repo.statusCalls)
	}
}

func TestResolvedStatusNotifiesReporter(t *testing.T) {
	rep := &Report{Status: StatusInProgress, UID: "citizen-1", IssueType: IssueWater}
	notifier := &fakeNotifier{}
	svc := newTestService(newFakeReportRepo(rep), notifier)

	if err := svc.UpdateStatus(context.Background(), adminClaims(), rep.ID.Hex(), StatusResolved, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(notifier.created) != 1 || notifier.created[0] != notification.KindResolution {
		t.Errorf("expected one resolution notification, got %v", notifier.created)
	}
}

func TestUpdateStatusAsSupervisor(t *testing.T) {
	rep := &Report{Status: StatusSubmitted}
	svc := newTestService(newFakeReportRepo(rep), &fakeNotifier{})
	ctx := context.Background()

	if err := svc.UpdateStatusAsSupervisor(ctx, adminClaims(), rep.ID.Hex(), StatusAcknowledged, ""); !errors.Is(err, ErrForbidden) {
		t.Errorf("admin through supervisor path: got %v, want ErrForbidden", err)
	}
	if err := svc.UpdateStatusAsSupervisor(ctx, supervisorClaims(), rep.ID.Hex(), StatusAcknowledged, ""); err != nil {
		t.Errorf("supervisor update failed: %v", err)
	}
}

func TestUpdateAssignment(t *testing.T) {
	rep := &Report{Status: StatusSubmitted}
	repo := newFakeReportRepo(rep)
	notifier := &fakeNotifier{}
	svc := newTestService(repo, notifier)
	ctx := context.Background()

	if err := svc.UpdateAssignment(ctx, adminClaims(), rep.ID.Hex(), nil, nil); !errors.Is(err, ErrNoAssignmentFields) {
		t.Errorf("both fields nil: got %v, want ErrNoAssignmentFields", err)
	}

	bogus := Department("parks")
	if err := svc.UpdateAssignment(ctx, adminClaims(), rep.ID.Hex(), &bogus, nil); !errors.Is(err, ErrInvalidDepartment) {
		t.Errorf("unknown department: got %v, want ErrInvalidDepartment", err)
	}

	dept := DeptRoads
	if err := svc.UpdateAssignment(ctx, adminClaims(), rep.ID.Hex(), &dept, nil); err != nil {
		t.Fatalf("dept-only assignment failed: %v", err)
	}
	if rep.AssignedDept != DeptRoads {
		t.Errorf("assigned_dept = %s, want roads", rep.AssignedDept)
	}
	if len(notifier.created) != 0 {
		t.Error("dept-only assignment should not notify")
	}

	assignee := "sup-1"
	if err := svc.UpdateAssignment(ctx, adminClaims(), rep.ID.Hex(), nil, &assignee); err != nil {
		t.Fatalf("assignee-only assignment failed: %v", err)
	}
	if rep.AssignedTo != "sup-1" {
		t.Errorf("assigned_to = %s, want sup-1", rep.AssignedTo)
	}
	if len(notifier.created) != 1 || notifier.created[0] != notification.KindAssignment {
		t.Errorf("expected one assignment notification, got %v", notifier.created)
	}

	// Assignments never touch history
	if len(rep.StatusHistory) != 0 {
		t.Errorf("assignment appended history: %+v", rep.StatusHistory)
	}
}

func TestUpdateClassification(t *testing.T) {
	rep := &Report{Status: StatusSubmitted}
	svc := newTestService(newFakeReportRepo(rep), &fakeNotifier{})

	err := svc.UpdateClassification(context.Background(), adminClaims(), rep.ID.Hex(), "infrastructure", "verified on site")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rep.Classification != "infrastructure" || rep.ClassificationNote != "verified on site" {
		t.Errorf("classification fields not set: %+v", rep)
	}
	if len(rep.StatusHistory) != 1 || rep.StatusHistory[0].Kind != HistoryKindClassification {
		t.Errorf("expected one classification history entry, got %+v", rep.StatusHistory)
	}
}

func TestAddNote(t *testing.T) {
	rep := &Report{Status: StatusSubmitted}
	svc := newTestService(newFakeReportRepo(rep), &fakeNotifier{})
	ctx := context.Background()

	if err := svc.AddNote(ctx, adminClaims(), rep.ID.Hex(), "note"); !errors.Is(err, ErrForbidden) {
		t.Errorf("admin note: got %v, want ErrForbidden", err)
	}
	if err := svc.AddNote(ctx, supervisorClaims(), rep.ID.Hex(), ""); !errors.Is(err, ErrEmptyNote) {
		t.Errorf("empty note: got %v, want ErrEmptyNote", err)
	}

	if err := svc.AddNote(ctx, supervisorClaims(), rep.ID.Hex(), "crew dispatched"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rep.StatusHistory) != 1 || rep.StatusHistory[0].Kind != HistoryKindNote {
		t.Fatalf("expected one note entry, got %+v", rep.StatusHistory)
	}
	if rep.Status != StatusSubmitted {
		t.Error("note must not change status")
	}
}

func TestHistoryIsAppendOnly(t *testing.T) {
	rep := &Report{Status: StatusSubmitted}
	svc := newTestService(newFakeReportRepo(rep), &fakeNotifier{})
	ctx := context.Background()
	id := rep.ID.Hex()

	svc.UpdateStatus(ctx, adminClaims(), id, StatusAcknowledged, "")
	svc.UpdateClassification(ctx, adminClaims(), id, "roads", "")
	svc.AddNote(ctx, supervisorClaims(), id, "note")
	svc.UpdateStatus(ctx, adminClaims(), id, StatusResolved, "")

	kinds := []HistoryKind{}
	for _, e := range rep.StatusHistory {
		kinds = append(kinds, e.Kind)
	}
	want := []HistoryKind{HistoryKindStatus, HistoryKindClassification, HistoryKindNote, HistoryKindStatus}
	if len(kinds) != len(want) {
		t.Fatalf("history length = %d, want %d (%v)", len(kinds), len(want), kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("history[%d] = %s, want %s", i, kinds[i], want[i])
		}
	}
}

func TestMutationsBumpSnapshotVersion(t *testing.T) {
	rep := &Report{Status: StatusSubmitted}
	svc := newTestService(newFakeReportRepo(rep), &fakeNotifier{})
	ctx := context.Background()
	id := rep.ID.Hex()

	before := svc.Version.Current()
	dept := DeptRoads

	svc.UpdateStatus(ctx, adminClaims(), id, StatusAcknowledged, "")
	svc.UpdateAssignment(ctx, adminClaims(), id, &dept, nil)
	svc.UpdateClassification(ctx, adminClaims(), id, "roads", "")
	svc.AddNote(ctx, supervisorClaims(), id, "note")

	if got := svc.Version.Current(); got != before+4 {
		t.Errorf("version advanced by %d, want 4 (each successful mutation drops cached filter subsets)", got-before)
	}

	// Rejected mutations leave the version alone
	svc.UpdateStatus(ctx, nil, id, StatusResolved, "")
	svc.UpdateAssignment(ctx, adminClaims(), id, nil, nil)
	if got := svc.Version.Current(); got != before+4 {
		t.Errorf("rejected mutations moved the version to %d, want %d", got, before+4)
	}
}

func TestListSupervisorReports(t *testing.T) {
	deptReport := &Report{AssignedDept: DeptRoads}
	personal := &Report{AssignedDept: DeptWater, AssignedTo: "sup-1"}
	other := &Report{AssignedDept: DeptWater}
	svc := newTestService(newFakeReportRepo(deptReport, personal, other), &fakeNotifier{})
	ctx := context.Background()

	if _, err := svc.ListSupervisorReports(ctx, nil); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("nil principal: got %v, want ErrUnauthenticated", err)
	}
	if _, err := svc.ListSupervisorReports(ctx, adminClaims()); !errors.Is(err, ErrForbidden) {
		t.Errorf("admin principal: got %v, want ErrForbidden", err)
	}

	got, err := svc.ListSupervisorReports(ctx, supervisorClaims())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("supervisor scope = %d reports, want 2 (dept plus personal)", len(got))
	}
}
