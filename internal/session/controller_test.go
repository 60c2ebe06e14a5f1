package session_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/hours-portal/internal"
	"github.com/frahmantamala/hours-portal/internal/department"
	"github.com/frahmantamala/hours-portal/internal/employee"
	"github.com/frahmantamala/hours-portal/internal/session"
	"github.com/frahmantamala/hours-portal/internal/state"
	"github.com/frahmantamala/hours-portal/internal/submission"
	"github.com/frahmantamala/hours-portal/internal/supervisor"
	"github.com/frahmantamala/hours-portal/internal/timesheet"
)

const (
	harry = "sup-1" // admin, all departments
	abe   = "sup-4" // Operations + Affiliate Contractors
	week  = "2025-01-06"
)

type stubSink struct {
	mu    sync.Mutex
	err   error
	calls int
}

func (s *stubSink) Send(context.Context, string, []submission.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.err
}

type stubDrafter struct{}

func (stubDrafter) Draft(_ context.Context, req submission.DraftRequest) submission.Draft {
	return submission.Draft{Subject: "Week of " + req.WeekLabel, Body: "body", Generated: true}
}

// failingKV accepts reads and refuses writes once armed.
type failingKV struct {
	*state.MemoryKV
	fail bool
}

func (f *failingKV) Set(ctx context.Context, key string, value []byte) error {
	if f.fail {
		return errors.New("read-only")
	}
	return f.MemoryKV.Set(ctx, key, value)
}

func hours(h float64) *float64 { return &h }

var _ = Describe("Controller", func() {
	var (
		ctx        context.Context
		logger     *slog.Logger
		kv         *failingKV
		repo       *state.Repository
		sink       *stubSink
		controller *session.Controller
	)

	newController := func(submitter session.Submitter) *session.Controller {
		c, err := session.NewController(ctx, repo, submitter, nil, logger)
		Expect(err).NotTo(HaveOccurred())
		c.SetClock(func() time.Time { return time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC) })
		return c
	}

	login := func(email string) {
		_, err := controller.Login(ctx, email)
		Expect(err).NotTo(HaveOccurred())
	}

	BeforeEach(func() {
		ctx = context.Background()
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
		kv = &failingKV{MemoryKV: state.NewMemoryKV()}
		repo = state.NewRepository(kv, "https://sheets.example.com/exec", logger)
		sink = &stubSink{}
		controller = newController(submission.NewService(submission.Config{}, sink, stubDrafter{}, nil, nil, logger))
	})

	Describe("Login", func() {
		It("accepts allow-listed emails regardless of case and persists the session", func() {
			sup, err := controller.Login(ctx, "  HHedaya@SendItByText.com ")
			Expect(err).NotTo(HaveOccurred())
			Expect(sup.ID).To(Equal(harry))

			loaded, err := repo.Load(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.CurrentUser.ID).To(Equal(harry))
		})

		It("denies unknown emails with a generic message and no state change", func() {
			_, err := controller.Login(ctx, "stranger@example.com")
			Expect(err).To(MatchError(internal.ErrLoginDenied))
			Expect(err.Error()).To(Equal("User not found. Please use an authorized email address."))
			Expect(controller.CurrentUser()).To(BeNil())
		})

		It("only authorizes the current user", func() {
			login("atozier@cardshield.me")

			_, err := controller.Authorize(abe)
			Expect(err).NotTo(HaveOccurred())
			_, err = controller.Authorize(harry)
			Expect(err).To(MatchError(internal.ErrNotLoggedIn))

			Expect(controller.Logout(ctx, abe)).To(Succeed())
			_, err = controller.Authorize(abe)
			Expect(err).To(MatchError(internal.ErrNotLoggedIn))
		})
	})

	Describe("employees", func() {
		It("lists only employees in the supervisor's departments", func() {
			login("atozier@cardshield.me")

			list, err := controller.ListEmployees(ctx, abe)
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(1))
			Expect(list[0].ID).To(Equal("emp-1"))
		})

		It("creates employees only inside visible departments", func() {
			login("atozier@cardshield.me")

			created, err := controller.UpsertEmployee(ctx, abe, employee.UpsertEmployeeDTO{
				FirstName: "Olga", LastName: "Ortiz", Rate: 21, Department: "operations",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(created.ID).To(HavePrefix("emp-"))
			Expect(created.Department).To(Equal(department.Operations))

			_, err = controller.UpsertEmployee(ctx, abe, employee.UpsertEmployeeDTO{
				FirstName: "Sam", LastName: "Sales", Department: "Sales",
			})
			Expect(err).To(MatchError(internal.ErrDepartmentForbidden))
		})

		It("hides employees of other departments from edits and deletes", func() {
			login("atozier@cardshield.me")

			_, err := controller.UpsertEmployee(ctx, abe, employee.UpsertEmployeeDTO{
				ID: "emp-2", FirstName: "Sarah", LastName: "Smith", Department: "Operations",
			})
			Expect(err).To(MatchError(internal.ErrEmployeeNotFound))
			Expect(controller.DeleteEmployee(ctx, abe, "emp-2")).To(MatchError(internal.ErrEmployeeNotFound))
		})

		It("rejects invalid input without changing state", func() {
			login("hhedaya@senditbytext.com")
			before := controller.Snapshot()

			_, err := controller.UpsertEmployee(ctx, harry, employee.UpsertEmployeeDTO{FirstName: "", LastName: "X", Department: "Sales"})
			Expect(err).To(HaveOccurred())
			_, err = controller.UpsertEmployee(ctx, harry, employee.UpsertEmployeeDTO{FirstName: "A", LastName: "B", Department: "Marketing"})
			Expect(err).To(HaveOccurred())

			Expect(controller.Snapshot()).To(Equal(before))
		})

		It("edits in place and keeps roster order", func() {
			login("hhedaya@senditbytext.com")

			_, err := controller.UpsertEmployee(ctx, harry, employee.UpsertEmployeeDTO{
				ID: "emp-1", FirstName: "Dan", LastName: "Robles", Rate: 27, Department: "Affiliate Contractors",
			})
			Expect(err).NotTo(HaveOccurred())

			list, _ := controller.ListEmployees(ctx, harry)
			Expect(list[0].FirstName).To(Equal("Dan"))
			Expect(list[0].Rate).To(Equal(27.0))
			Expect(list[1].ID).To(Equal("emp-2"))
		})

		It("keeps a deleted employee's sheets out of later views", func() {
			login("hhedaya@senditbytext.com")
			_, err := controller.UpsertTimeSheetEntry(ctx, harry, week, timesheet.UpsertEntryDTO{EmployeeID: "emp-2", Date: "2025-01-06", Hours: hours(4)})
			Expect(err).NotTo(HaveOccurred())

			Expect(controller.DeleteEmployee(ctx, harry, "emp-2")).To(Succeed())

			view, err := controller.WeekView(ctx, harry, week)
			Expect(err).NotTo(HaveOccurred())
			Expect(view.Rows).To(HaveLen(1))
			Expect(view.GrandTotal).To(BeZero())
			Expect(controller.Snapshot().TimeSheets).To(HaveLen(1))
		})
	})

	Describe("time sheets", func() {
		It("defaults to the previous week", func() {
			login("hhedaya@senditbytext.com")

			view, err := controller.WeekView(ctx, harry, "")
			Expect(err).NotTo(HaveOccurred())
			Expect(view.WeekStartDate).To(Equal(week))
		})

		It("records hours for visible employees and returns the updated row", func() {
			login("atozier@cardshield.me")

			row, err := controller.UpsertTimeSheetEntry(ctx, abe, "2025-01-08", timesheet.UpsertEntryDTO{EmployeeID: "emp-1", Date: "2025-01-07", Hours: hours(7.5)})
			Expect(err).NotTo(HaveOccurred())
			Expect(row.Total).To(Equal(7.5))
			Expect(row.Hours).To(HaveKeyWithValue("2025-01-07", 7.5))

			_, err = controller.UpsertTimeSheetEntry(ctx, abe, week, timesheet.UpsertEntryDTO{EmployeeID: "emp-2", Date: "2025-01-07", Hours: hours(1)})
			Expect(err).To(MatchError(internal.ErrEmployeeNotFound))
		})

		It("treats a null value as zero and rejects negative hours", func() {
			login("hhedaya@senditbytext.com")

			row, err := controller.UpsertTimeSheetEntry(ctx, harry, week, timesheet.UpsertEntryDTO{EmployeeID: "emp-1", Date: "2025-01-06"})
			Expect(err).NotTo(HaveOccurred())
			Expect(row.Hours).To(HaveKeyWithValue("2025-01-06", 0.0))

			_, err = controller.UpsertTimeSheetEntry(ctx, harry, week, timesheet.UpsertEntryDTO{EmployeeID: "emp-1", Date: "2025-01-06", Hours: hours(-2)})
			Expect(err).To(MatchError(internal.ErrInvalidHours))
		})

		It("leaves state untouched when saving fails", func() {
			login("hhedaya@senditbytext.com")
			before := controller.Snapshot()
			kv.fail = true

			_, err := controller.UpsertTimeSheetEntry(ctx, harry, week, timesheet.UpsertEntryDTO{EmployeeID: "emp-1", Date: "2025-01-06", Hours: hours(3)})
			Expect(err).To(HaveOccurred())
			Expect(controller.Snapshot()).To(Equal(before))
		})
	})

	Describe("Submit", func() {
		It("aborts before any collaborator when there is nothing to submit", func() {
			login("hhedaya@senditbytext.com")

			_, err := controller.Submit(ctx, harry, week)
			Expect(err).To(MatchError(internal.ErrNothingToSubmit))
			Expect(sink.calls).To(BeZero())
		})

		It("marks submitted sheets once the sink accepted them", func() {
			login("hhedaya@senditbytext.com")
			_, err := controller.UpsertTimeSheetEntry(ctx, harry, week, timesheet.UpsertEntryDTO{EmployeeID: "emp-1", Date: "2025-01-06", Hours: hours(8)})
			Expect(err).NotTo(HaveOccurred())

			out, err := controller.Submit(ctx, harry, week)
			Expect(err).NotTo(HaveOccurred())
			Expect(out.SinkOK).To(BeTrue())
			Expect(out.Resubmitted).To(BeEmpty())

			sheet, ok := controller.Snapshot().Store().Find("emp-1", week)
			Expect(ok).To(BeTrue())
			Expect(sheet.Submitted).To(BeTrue())

			again, err := controller.Submit(ctx, harry, week)
			Expect(err).NotTo(HaveOccurred())
			Expect(again.Resubmitted).To(Equal([]string{"Daniel Robles"}))
		})

		It("does not mark sheets when the sink failed", func() {
			sink.err = errors.New("offline")
			login("hhedaya@senditbytext.com")
			_, err := controller.UpsertTimeSheetEntry(ctx, harry, week, timesheet.UpsertEntryDTO{EmployeeID: "emp-1", Date: "2025-01-06", Hours: hours(8)})
			Expect(err).NotTo(HaveOccurred())

			out, err := controller.Submit(ctx, harry, week)
			Expect(err).NotTo(HaveOccurred())
			Expect(out.SinkOK).To(BeFalse())
			Expect(out.Drafted).To(BeTrue())

			sheet, _ := controller.Snapshot().Store().Find("emp-1", week)
			Expect(sheet.Submitted).To(BeFalse())
		})

		It("rejects a second submission while one is running", func() {
			blocking := &blockingSubmitter{started: make(chan struct{}), release: make(chan struct{})}
			controller = newController(blocking)
			login("hhedaya@senditbytext.com")

			done := make(chan error, 1)
			go func() {
				defer GinkgoRecover()
				_, err := controller.Submit(ctx, harry, week)
				done <- err
			}()
			Eventually(blocking.started).Should(BeClosed())
			Expect(controller.Submitting()).To(BeTrue())

			_, err := controller.Submit(ctx, harry, week)
			Expect(err).To(MatchError(internal.ErrSubmissionInProgress))

			close(blocking.release)
			Eventually(done).Should(Receive(BeNil()))
			Expect(controller.Submitting()).To(BeFalse())
		})

		It("requires a logged-in supervisor", func() {
			_, err := controller.Submit(ctx, harry, week)
			Expect(err).To(MatchError(internal.ErrNotLoggedIn))
			Expect(controller.Submitting()).To(BeFalse())
		})
	})

	Describe("admin commands", func() {
		It("denies non-admins", func() {
			login("atozier@cardshield.me")

			_, err := controller.ListSupervisors(ctx, abe)
			Expect(err).To(MatchError(internal.ErrAdminRequired))
			_, err = controller.SetEndpointURL(ctx, abe, "https://evil.example.com")
			Expect(err).To(MatchError(internal.ErrAdminRequired))
		})

		It("adds supervisors with unique emails", func() {
			login("hhedaya@senditbytext.com")

			created, err := controller.UpsertSupervisor(ctx, harry, supervisor.UpsertSupervisorDTO{
				FirstName: "Nina", LastName: "New", Email: "nina@cardshield.me", Departments: []string{"Sales"},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(created.Departments).To(Equal([]department.Department{department.Sales}))

			_, err = controller.UpsertSupervisor(ctx, harry, supervisor.UpsertSupervisorDTO{
				FirstName: "Dup", LastName: "Licate", Email: "NINA@cardshield.me",
			})
			Expect(err).To(MatchError(internal.ErrDuplicateEmail))

			_, err = controller.Login(ctx, "nina@cardshield.me")
			Expect(err).NotTo(HaveOccurred())
		})

		It("refuses to delete the acting supervisor", func() {
			login("hhedaya@senditbytext.com")

			Expect(controller.DeleteSupervisor(ctx, harry, harry)).To(MatchError(internal.ErrCannotDeleteSelf))
			Expect(controller.DeleteSupervisor(ctx, harry, "sup-404")).To(MatchError(internal.ErrSupervisorNotFound))
			Expect(controller.DeleteSupervisor(ctx, harry, abe)).To(Succeed())

			list, err := controller.ListSupervisors(ctx, harry)
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(3))
		})

		It("validates and persists the endpoint URL", func() {
			login("hhedaya@senditbytext.com")

			_, err := controller.SetEndpointURL(ctx, harry, "not a url")
			Expect(err).To(HaveOccurred())
			Expect(err).To(MatchError(ContainSubstring("valid http(s) URL")))

			url, err := controller.SetEndpointURL(ctx, harry, " https://script.example.com/new ")
			Expect(err).NotTo(HaveOccurred())
			Expect(url).To(Equal("https://script.example.com/new"))

			got, err := controller.EndpointURL(ctx, harry)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(url))
		})
	})

	It("resets to the seeded defaults", func() {
		login("hhedaya@senditbytext.com")
		_, err := controller.UpsertTimeSheetEntry(ctx, harry, week, timesheet.UpsertEntryDTO{EmployeeID: "emp-1", Date: "2025-01-06", Hours: hours(8)})
		Expect(err).NotTo(HaveOccurred())

		Expect(controller.Reset(ctx)).To(Succeed())

		Expect(controller.Snapshot()).To(Equal(state.Default("https://sheets.example.com/exec")))
		Expect(controller.CurrentUser()).To(BeNil())
	})
})

type blockingSubmitter struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (b *blockingSubmitter) Submit(context.Context, submission.Request) (*submission.Outcome, error) {
	b.once.Do(func() { close(b.started) })
	<-b.release
	return &submission.Outcome{}, nil
}

func (b *blockingSubmitter) Export(submission.Request) ([]byte, error) {
	return nil, nil
}
