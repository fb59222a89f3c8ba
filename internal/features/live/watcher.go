package live

import (
	"context"
	"encoding/json"

	"go-civic/internal/features/report"
	"go-civic/internal/features/routing"

	"go.uber.org/zap"
)

// Event is the wire shape pushed to dashboard clients whenever a report
// document changes.
type Event struct {
	Type   string         `json:"type"`
	Report *report.Report `json:"report,omitempty"`
}

// ReportWatcher consumes the reports change stream, broadcasts every insert
// and update to the hub, and hands freshly inserted reports to the routing
// service for auto-assignment.
type ReportWatcher struct {
	Repo           report.ReportRepository
	Hub            *Hub
	RoutingService routing.RoutingService
	Version        *report.SnapshotVersion
	Logger         *zap.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

func NewReportWatcher(repo report.ReportRepository, hub *Hub, routingService routing.RoutingService, version *report.SnapshotVersion, logger *zap.Logger) *ReportWatcher {
	return &ReportWatcher{
		Repo:           repo,
		Hub:            hub,
		RoutingService: routingService,
		Version:        version,
		Logger:         logger,
	}
}

type changeEvent struct {
	OperationType string         `bson:"operationType"`
	FullDocument  *report.Report `bson:"fullDocument"`
}

// Start opens the change stream and consumes it until Stop is called. Stream
// failures shut the watcher down; the process keeps serving requests without
// live updates.
func (w *ReportWatcher) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	w.done = make(chan struct{})

	stream, err := w.Repo.Watch(ctx)
	if err != nil {
		cancel()
		close(w.done)
		return err
	}

	go func() {
		defer close(w.done)
		defer stream.Close(context.Background())

		for stream.Next(ctx) {
			var event changeEvent
			if err := stream.Decode(&event); err != nil {
				w.Logger.Warn("failed to decode change event", zap.Error(err))
				continue
			}
			w.handle(ctx, &event)
		}

		if err := stream.Err(); err != nil && ctx.Err() == nil {
			w.Logger.Error("change stream closed", zap.Error(err))
			payload, _ := json.Marshal(Event{Type: "error"})
			w.Hub.CloseAll(payload)
		}
	}()

	return nil
}

// Stop cancels the stream and waits for the consumer goroutine to exit
func (w *ReportWatcher) Stop() {
	if w.cancel == nil {
		return
	}
	w.cancel()
	<-w.done
}

func (w *ReportWatcher) handle(ctx context.Context, event *changeEvent) {
	if event.FullDocument == nil {
		return
	}

	w.Version.Bump()

	switch event.OperationType {
	case "insert":
		if err := w.RoutingService.RouteReport(ctx, event.FullDocument); err != nil {
			w.Logger.Warn("auto-routing failed",
				zap.String("report_id", event.FullDocument.ID.Hex()),
				zap.Error(err))
		}
		w.broadcast("report.created", event.FullDocument)
	case "update", "replace":
		w.broadcast("report.updated", event.FullDocument)
	}
}

func (w *ReportWatcher) broadcast(eventType string, r *report.Report) {
	payload, err := json.Marshal(Event{Type: eventType, Report: r})
	if err != nil {
		w.Logger.Warn("failed to marshal live event", zap.Error(err))
		return
	}
	w.Hub.Broadcast(payload)
}
