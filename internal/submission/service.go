package submission

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/frahmantamala/hours-portal/internal"
	"github.com/frahmantamala/hours-portal/internal/core/events"
	"github.com/frahmantamala/hours-portal/internal/employee"
	"github.com/frahmantamala/hours-portal/internal/mailer"
	"github.com/frahmantamala/hours-portal/internal/supervisor"
	"github.com/frahmantamala/hours-portal/internal/timesheet"
)

const DefaultMailbox = "employeehours@plansvcs.com"

var ErrNoEndpoint = errors.New("spreadsheet endpoint is not configured")

// Sink receives the JSON-encoded records. A nil error only means the
// request left without a local network failure.
type Sink interface {
	Send(ctx context.Context, endpoint string, records []Record) error
}

type DraftRequest struct {
	Supervisor supervisor.Supervisor
	WeekLabel  string
	Employees  []employee.Employee
	Records    []Record
}

type Draft struct {
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	Generated bool   `json:"generated"`
}

// Drafter never fails; on any problem it returns fallback content.
type Drafter interface {
	Draft(ctx context.Context, req DraftRequest) Draft
}

type Deliverer interface {
	Send(ctx context.Context, msg mailer.Message) error
}

type Publisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Config struct {
	CompanyLabel    string
	Mailbox         string
	SinkTimeout     time.Duration
	DraftTimeout    time.Duration
	DeliveryTimeout time.Duration
}

type Request struct {
	Week       string
	Supervisor supervisor.Supervisor
	Employees  []employee.Employee
	Store      timesheet.Store
	Endpoint   string
}

type Outcome struct {
	WeekStartDate string   `json:"week_start_date"`
	Records       []Record `json:"records"`
	Summary       Summary  `json:"summary"`
	SummaryText   string   `json:"summary_text"`

	SinkOK    bool   `json:"sink_ok"`
	SinkError string `json:"sink_error,omitempty"`

	Draft     Draft  `json:"draft"`
	Drafted   bool   `json:"drafted"`
	MailtoURI string `json:"mailto_uri"`

	Delivered     bool   `json:"delivered"`
	DeliveryError string `json:"delivery_error,omitempty"`

	// Resubmitted names employees whose sheet had already been submitted.
	Resubmitted []string `json:"resubmitted,omitempty"`

	SubmittedEmployeeIDs []string `json:"-"`
}

type Service struct {
	formatter Formatter
	sink      Sink
	drafter   Drafter
	deliverer Deliverer
	publisher Publisher
	cfg       Config
	logger    *slog.Logger
}

// NewService wires the pipeline. deliverer and publisher may be nil.
func NewService(cfg Config, sink Sink, drafter Drafter, deliverer Deliverer, publisher Publisher, logger *slog.Logger) *Service {
	if cfg.Mailbox == "" {
		cfg.Mailbox = DefaultMailbox
	}
	return &Service{
		formatter: NewFormatter(cfg.CompanyLabel),
		sink:      sink,
		drafter:   drafter,
		deliverer: deliverer,
		publisher: publisher,
		cfg:       cfg,
		logger:    logger,
	}
}

// Submit formats the week and, when there is something to submit, runs the
// sink post and the email draft side by side. Neither failure stops the other.
func (s *Service) Submit(ctx context.Context, req Request) (*Outcome, error) {
	batch, err := s.formatter.Format(req.Week, req.Supervisor, req.Employees, req.Store)
	if err != nil {
		return nil, err
	}

	out := &Outcome{
		WeekStartDate:        batch.WeekStartDate,
		Records:              batch.Records,
		Summary:              batch.Summary,
		SummaryText:          batch.Summary.Text(),
		SubmittedEmployeeIDs: batch.EmployeeIDs(),
	}
	for _, rec := range batch.Records {
		if sheet, ok := req.Store.Find(rec.EmployeeID, batch.WeekStartDate); ok && sheet.Submitted {
			out.Resubmitted = append(out.Resubmitted, rec.EmployeeFirstName+" "+rec.EmployeeLastName)
		}
	}
	if len(out.Resubmitted) > 0 {
		s.logger.Warn("resubmitting already submitted time sheets",
			"week", batch.WeekStartDate,
			"employees", out.Resubmitted)
	}

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		sinkErr := s.send(ctx, req.Endpoint, batch.Records)
		if sinkErr != nil {
			s.logger.Warn("spreadsheet submission failed", "week", batch.WeekStartDate, "error", sinkErr)
			out.SinkError = sinkErr.Error()
			return
		}
		out.SinkOK = true
	}()

	go func() {
		defer wg.Done()
		draftCtx, cancel := internal.WithTimeout(ctx, s.cfg.DraftTimeout)
		defer cancel()
		out.Draft = s.drafter.Draft(draftCtx, DraftRequest{
			Supervisor: batch.Supervisor,
			WeekLabel:  batch.WeekLabel,
			Employees:  batch.Employees,
			Records:    batch.Records,
		})
		out.Drafted = out.Draft.Generated
	}()

	wg.Wait()

	out.MailtoURI = mailer.ComposeURI(s.cfg.Mailbox, out.Draft.Subject, out.Draft.Body)
	s.deliver(ctx, out)

	s.logger.Info("submission finished",
		"week", batch.WeekStartDate,
		"supervisor_id", req.Supervisor.ID,
		"records", len(out.Records),
		"sink_ok", out.SinkOK,
		"drafted", out.Drafted,
		"delivered", out.Delivered)

	if s.publisher != nil {
		_ = s.publisher.Publish(ctx, events.NewSubmissionCompletedEvent(
			req.Supervisor.ID, batch.WeekStartDate, len(out.Records), batch.Summary.GrandTotal, out.SinkOK, out.Drafted))
	}
	return out, nil
}

func (s *Service) send(ctx context.Context, endpoint string, records []Record) error {
	if endpoint == "" {
		return ErrNoEndpoint
	}
	sinkCtx, cancel := internal.WithTimeout(ctx, s.cfg.SinkTimeout)
	defer cancel()
	return s.sink.Send(sinkCtx, endpoint, records)
}

func (s *Service) deliver(ctx context.Context, out *Outcome) {
	if s.deliverer == nil {
		return
	}
	mailCtx, cancel := internal.WithTimeout(ctx, s.cfg.DeliveryTimeout)
	defer cancel()

	err := s.deliverer.Send(mailCtx, mailer.Message{
		To:      s.cfg.Mailbox,
		Subject: out.Draft.Subject,
		Body:    out.Draft.Body + "\n\n" + out.SummaryText,
	})
	if err != nil {
		s.logger.Warn("email delivery failed", "error", err)
		out.DeliveryError = err.Error()
		return
	}
	out.Delivered = true
}

// Export renders the week as an xlsx workbook without any side effects.
func (s *Service) Export(req Request) ([]byte, error) {
	batch, err := s.formatter.Format(req.Week, req.Supervisor, req.Employees, req.Store)
	if err != nil {
		return nil, err
	}
	return Workbook(batch)
}
