// Package notify sends confirmation and admin emails after a submission
// lands. Delivery is best effort: the submission is already durable by
// the time emails go out, so failures are logged and counted, never
// surfaced to the applicant.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/saipavansp/incubez-talent-stories/pkg/config"
	"github.com/saipavansp/incubez-talent-stories/pkg/enums"
	"github.com/saipavansp/incubez-talent-stories/pkg/logger"
	"github.com/saipavansp/incubez-talent-stories/pkg/metrics"
)

const dispatchTimeout = 30 * time.Second

// Detail is one labelled line in the admin notification.
type Detail struct {
	Label string
	Value string
}

// Submission carries everything the email templates need.
type Submission struct {
	Kind          enums.SubmissionKind
	ApplicationID string
	Name          string
	Email         string
	Phone         string
	LinkedInURL   string
	VideoURL      string
	CouponCode    string
	AmountPaid    string
	Details       []Detail
	SubmittedAt   time.Time
}

type templateData struct {
	Submission
	IsFounder   bool
	SubmittedAt string
	ClientURL   string
	SheetURL    string
}

// Dispatcher fans submission emails out in the background.
type Dispatcher struct {
	sender    EmailSender
	cfg       config.SMTPConfig
	clientURL string
	sheetURL  string
	logg      *logger.Logger
	metrics   *metrics.PipelineMetrics
	enabled   bool

	wg sync.WaitGroup
}

// NewDispatcher wires a dispatcher. A nil sender or disabled flag turns
// dispatch into a logged no-op.
func NewDispatcher(sender EmailSender, cfg config.SMTPConfig, clientURL, spreadsheetID string, enabled bool, logg *logger.Logger, m *metrics.PipelineMetrics) *Dispatcher {
	sheetURL := ""
	if spreadsheetID != "" {
		sheetURL = "https://docs.google.com/spreadsheets/d/" + spreadsheetID
	}
	return &Dispatcher{
		sender:    sender,
		cfg:       cfg,
		clientURL: clientURL,
		sheetURL:  sheetURL,
		logg:      logg,
		metrics:   m,
		enabled:   enabled,
	}
}

// Dispatch sends the applicant confirmation and the admin notification in
// a background goroutine and returns immediately. The submission response
// never waits on SMTP.
func (d *Dispatcher) Dispatch(ctx context.Context, sub Submission) {
	if !d.enabled || d.sender == nil || !d.cfg.Configured() {
		d.logg.Info(ctx, "email not configured, skipping notifications")
		return
	}

	ctx = d.logg.WithApplicationID(context.WithoutCancel(ctx), sub.ApplicationID)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		sendCtx, cancel := context.WithTimeout(ctx, dispatchTimeout)
		defer cancel()

		if err := d.sendConfirmation(sendCtx, sub); err != nil {
			d.metrics.ObserveNotifyFailure()
			d.logg.Error(sendCtx, "sending confirmation email", err)
		} else {
			d.logg.Info(sendCtx, "confirmation email sent")
		}

		if err := d.sendAdminNotification(sendCtx, sub); err != nil {
			d.metrics.ObserveNotifyFailure()
			d.logg.Error(sendCtx, "sending admin notification", err)
		} else {
			d.logg.Info(sendCtx, "admin notification sent")
		}
	}()
}

// Wait blocks until in-flight dispatches finish; used on shutdown and in
// tests.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) data(sub Submission) templateData {
	return templateData{
		Submission:  sub,
		IsFounder:   sub.Kind == enums.SubmissionKindFounder,
		SubmittedAt: sub.SubmittedAt.Format("02 Jan 2006, 15:04 MST"),
		ClientURL:   d.clientURL,
		SheetURL:    d.sheetURL,
	}
}

func (d *Dispatcher) sendConfirmation(ctx context.Context, sub Submission) error {
	var body bytes.Buffer
	if err := confirmationTemplate.Execute(&body, d.data(sub)); err != nil {
		return fmt.Errorf("rendering confirmation email: %w", err)
	}
	subject := "Application Submitted Successfully - INCUBEZ Talent Stories"
	return d.sender.Send(ctx, sub.Email, d.cfg.FromName, subject, body.String())
}

func (d *Dispatcher) sendAdminNotification(ctx context.Context, sub Submission) error {
	admin := d.cfg.AdminEmail
	if admin == "" {
		admin = d.cfg.User
	}

	var body bytes.Buffer
	if err := adminTemplate.Execute(&body, d.data(sub)); err != nil {
		return fmt.Errorf("rendering admin notification: %w", err)
	}

	label := "Seeker Application"
	if sub.Kind == enums.SubmissionKindFounder {
		label = "Founder Pitch"
	}
	subject := fmt.Sprintf("New %s - %s", label, sub.Name)
	return d.sender.Send(ctx, admin, d.cfg.FromName+" Platform", subject, body.String())
}
