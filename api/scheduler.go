/*
scheduler.go - Automated document-expiry scanner

PURPOSE:
  Periodically scans employee document expiry dates (visa, Emirates ID)
  and logs compliance alerts so approaching deadlines are surfaced even
  when nobody is looking at the dashboard.

DESIGN:
  - Runs on a cron schedule (default: daily at 08:00)
  - Reuses the same alert collection as the /api/compliance/alerts
    endpoint, so logged alerts always match what the dashboard shows
  - Alert severity drives the log level: documents already expired or
    inside the 7-day window log at warn, the rest at info

CONFIGURATION:
  - Spec:    Cron expression (default: "0 8 * * *")
  - Enabled: Whether the scheduler is active (default: true)

USAGE:
  scheduler := NewExpiryScheduler(handler, logger, "0 8 * * *")
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: ComplianceAlerts endpoint (on-demand scan)
  - compliance/urgency.go: Urgency classification
*/
package api

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/warp/compliance-engine/compliance"
)

// ExpiryScheduler runs the periodic document-expiry scan.
type ExpiryScheduler struct {
	Handler *Handler
	Logger  *zap.Logger
	Spec    string
	Enabled bool

	cron *cron.Cron
}

// NewExpiryScheduler creates a scheduler with the given cron spec.
// An empty spec falls back to a daily 08:00 run.
func NewExpiryScheduler(handler *Handler, logger *zap.Logger, spec string) *ExpiryScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if spec == "" {
		spec = "0 8 * * *"
	}
	return &ExpiryScheduler{
		Handler: handler,
		Logger:  logger,
		Spec:    spec,
		Enabled: true,
	}
}

// Start registers the scan job and begins the cron loop.
func (es *ExpiryScheduler) Start() error {
	if !es.Enabled {
		es.Logger.Info("expiry scheduler disabled, not starting")
		return nil
	}

	es.cron = cron.New()
	if _, err := es.cron.AddFunc(es.Spec, es.ScanNow); err != nil {
		return err
	}
	es.cron.Start()

	es.Logger.Info("expiry scheduler started", zap.String("spec", es.Spec))
	return nil
}

// Stop halts the cron loop and waits for a running scan to finish.
func (es *ExpiryScheduler) Stop() {
	if es.cron == nil {
		return
	}
	ctx := es.cron.Stop()
	<-ctx.Done()
	es.Logger.Info("expiry scheduler stopped")
}

// ScanNow performs an immediate scan (also used by the cron job).
func (es *ExpiryScheduler) ScanNow() {
	ctx := context.Background()
	now := time.Now()

	employees, err := es.Handler.Store.ListEmployees(ctx)
	if err != nil {
		es.Logger.Error("expiry scan failed to list employees", zap.Error(err))
		return
	}

	alerts := collectAlerts(employees, now)
	for _, alert := range alerts {
		fields := []zap.Field{
			zap.String("employee_id", alert.EmployeeID),
			zap.String("employee", alert.EmployeeName),
			zap.String("document", alert.Document),
			zap.String("urgency", alert.Urgency),
			zap.String("expiry_date", alert.ExpiryDate),
		}
		switch compliance.Urgency(alert.Urgency) {
		case compliance.UrgencyCritical, compliance.UrgencyUrgent:
			es.Logger.Warn("document expiry alert", fields...)
		default:
			es.Logger.Info("document expiry alert", fields...)
		}
	}

	es.Logger.Info("expiry scan completed",
		zap.Int("employees", len(employees)),
		zap.Int("alerts", len(alerts)))
}
