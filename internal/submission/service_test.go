package submission_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/xuri/excelize/v2"

	"github.com/frahmantamala/hours-portal/internal"
	"github.com/frahmantamala/hours-portal/internal/core/events"
	"github.com/frahmantamala/hours-portal/internal/employee"
	"github.com/frahmantamala/hours-portal/internal/mailer"
	"github.com/frahmantamala/hours-portal/internal/submission"
	"github.com/frahmantamala/hours-portal/internal/timesheet"
)

type mockSink struct {
	mu       sync.Mutex
	calls    int
	endpoint string
	records  []submission.Record
	err      error
	block    bool
}

func (m *mockSink) Send(ctx context.Context, endpoint string, records []submission.Record) error {
	m.mu.Lock()
	m.calls++
	m.endpoint = endpoint
	m.records = records
	m.mu.Unlock()
	if m.block {
		<-ctx.Done()
		return ctx.Err()
	}
	return m.err
}

type mockDrafter struct {
	calls atomic.Int32
	req   submission.DraftRequest
	draft submission.Draft
}

func (m *mockDrafter) Draft(_ context.Context, req submission.DraftRequest) submission.Draft {
	m.calls.Add(1)
	m.req = req
	return m.draft
}

type mockDeliverer struct {
	msgs []mailer.Message
	err  error
}

func (m *mockDeliverer) Send(_ context.Context, msg mailer.Message) error {
	m.msgs = append(m.msgs, msg)
	return m.err
}

type mockPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (m *mockPublisher) Publish(_ context.Context, e events.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
	return nil
}

var _ = Describe("Service", func() {
	var (
		sink      *mockSink
		drafter   *mockDrafter
		publisher *mockPublisher
		service   *submission.Service
		req       submission.Request
	)

	BeforeEach(func() {
		sink = &mockSink{}
		drafter = &mockDrafter{draft: submission.Draft{Subject: "Weekly Hours", Body: "All good", Generated: true}}
		publisher = &mockPublisher{}
		service = submission.NewService(submission.Config{SinkTimeout: time.Second}, sink, drafter, nil, publisher,
			slog.New(slog.NewTextHandler(io.Discard, nil)))
		req = submission.Request{
			Week:       week,
			Supervisor: admin,
			Employees:  []employee.Employee{alice, bob},
			Store:      aliceAndBob(),
			Endpoint:   "https://sheets.example.com/exec",
		}
	})

	It("posts the records, drafts the email and builds the mailto link", func() {
		out, err := service.Submit(context.Background(), req)
		Expect(err).NotTo(HaveOccurred())

		Expect(sink.calls).To(Equal(1))
		Expect(sink.endpoint).To(Equal("https://sheets.example.com/exec"))
		Expect(sink.records).To(HaveLen(2))
		Expect(drafter.calls.Load()).To(Equal(int32(1)))
		Expect(drafter.req.WeekLabel).To(Equal("1/6/25"))
		Expect(drafter.req.Supervisor.ID).To(Equal(admin.ID))

		Expect(out.SinkOK).To(BeTrue())
		Expect(out.Drafted).To(BeTrue())
		Expect(out.MailtoURI).To(Equal("mailto:employeehours@plansvcs.com?subject=Weekly%20Hours&body=All%20good"))
		Expect(out.SummaryText).To(ContainSubstring("Grand total: 13.0"))
		Expect(out.SubmittedEmployeeIDs).To(Equal([]string{"alice", "bob"}))
		Expect(out.Delivered).To(BeFalse())

		Expect(publisher.events).To(HaveLen(1))
		Expect(publisher.events[0].EventType()).To(Equal(events.EventTypeSubmissionCompleted))
	})

	It("calls no collaborator when there is nothing to submit", func() {
		req.Store = timesheet.NewStore(nil)

		_, err := service.Submit(context.Background(), req)

		Expect(err).To(MatchError(internal.ErrNothingToSubmit))
		Expect(sink.calls).To(BeZero())
		Expect(drafter.calls.Load()).To(BeZero())
		Expect(publisher.events).To(BeEmpty())
	})

	It("still drafts when the sink fails", func() {
		sink.err = errors.New("connection refused")

		out, err := service.Submit(context.Background(), req)
		Expect(err).NotTo(HaveOccurred())

		Expect(out.SinkOK).To(BeFalse())
		Expect(out.SinkError).To(ContainSubstring("connection refused"))
		Expect(out.Drafted).To(BeTrue())
		Expect(out.MailtoURI).To(HavePrefix("mailto:"))
	})

	It("reports a missing endpoint as a sink failure without calling it", func() {
		req.Endpoint = ""

		out, err := service.Submit(context.Background(), req)
		Expect(err).NotTo(HaveOccurred())

		Expect(sink.calls).To(BeZero())
		Expect(out.SinkOK).To(BeFalse())
		Expect(out.SinkError).To(Equal(submission.ErrNoEndpoint.Error()))
		Expect(drafter.calls.Load()).To(Equal(int32(1)))
	})

	It("bounds a hung sink with its timeout", func() {
		sink.block = true
		service = submission.NewService(submission.Config{SinkTimeout: 50 * time.Millisecond}, sink, drafter, nil, nil,
			slog.New(slog.NewTextHandler(io.Discard, nil)))

		out, err := service.Submit(context.Background(), req)
		Expect(err).NotTo(HaveOccurred())
		Expect(out.SinkOK).To(BeFalse())
		Expect(out.SinkError).To(ContainSubstring("deadline exceeded"))
		Expect(out.Drafted).To(BeTrue())
	})

	It("lists sheets that were already submitted", func() {
		req.Store = req.Store.MarkSubmitted(week, []string{"bob"})

		out, err := service.Submit(context.Background(), req)
		Expect(err).NotTo(HaveOccurred())
		Expect(out.Resubmitted).To(Equal([]string{"Bob Builder"}))
	})

	It("delivers the draft with the summary when a deliverer is configured", func() {
		deliverer := &mockDeliverer{}
		service = submission.NewService(submission.Config{Mailbox: "hours@example.com"}, sink, drafter, deliverer, nil,
			slog.New(slog.NewTextHandler(io.Discard, nil)))

		out, err := service.Submit(context.Background(), req)
		Expect(err).NotTo(HaveOccurred())

		Expect(out.Delivered).To(BeTrue())
		Expect(deliverer.msgs).To(HaveLen(1))
		Expect(deliverer.msgs[0].To).To(Equal("hours@example.com"))
		Expect(deliverer.msgs[0].Subject).To(Equal("Weekly Hours"))
		Expect(deliverer.msgs[0].Body).To(HavePrefix("All good\n\nWeek of 1/6/25"))
	})

	It("keeps a delivery failure out of the result error", func() {
		deliverer := &mockDeliverer{err: errors.New("auth failed")}
		service = submission.NewService(submission.Config{}, sink, drafter, deliverer, nil,
			slog.New(slog.NewTextHandler(io.Discard, nil)))

		out, err := service.Submit(context.Background(), req)
		Expect(err).NotTo(HaveOccurred())
		Expect(out.Delivered).To(BeFalse())
		Expect(out.DeliveryError).To(ContainSubstring("auth failed"))
	})

	Describe("Export", func() {
		It("writes a summary sheet and one sheet per department", func() {
			data, err := service.Export(req)
			Expect(err).NotTo(HaveOccurred())

			f, err := excelize.OpenReader(bytes.NewReader(data))
			Expect(err).NotTo(HaveOccurred())
			defer f.Close()

			Expect(f.GetSheetList()).To(Equal([]string{"Summary", "Sales", "Operations"}))

			rows, err := f.GetRows("Sales")
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(2))
			Expect(rows[0][0]).To(Equal("Primary company"))
			Expect(rows[0][7]).To(Equal("Rate"))
			Expect(rows[1][2]).To(Equal("Alice"))

			summary, err := f.GetRows("Summary")
			Expect(err).NotTo(HaveOccurred())
			Expect(summary[0]).To(Equal([]string{"Week of", "1/6/25"}))
			Expect(summary[len(summary)-1]).To(Equal([]string{"", "Grand total", "13"}))
		})

		It("makes no collaborator calls", func() {
			_, err := service.Export(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(sink.calls).To(BeZero())
			Expect(drafter.calls.Load()).To(BeZero())
		})
	})
})
