package submission_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/hours-portal/internal"
	"github.com/frahmantamala/hours-portal/internal/submission"
	"github.com/frahmantamala/hours-portal/internal/transport"
)

type mockSubmitService struct {
	actorID  string
	lastWeek string
	export   []byte
	err      error
}

func (m *mockSubmitService) Submit(_ context.Context, actorID, wk string) (*submission.Outcome, error) {
	m.actorID, m.lastWeek = actorID, wk
	if m.err != nil {
		return nil, m.err
	}
	return &submission.Outcome{WeekStartDate: week, SinkOK: true}, nil
}

func (m *mockSubmitService) Export(_ context.Context, actorID, wk string) ([]byte, error) {
	m.actorID, m.lastWeek = actorID, wk
	if m.err != nil {
		return nil, m.err
	}
	return m.export, nil
}

var _ = Describe("Handler", func() {
	var (
		svc    *mockSubmitService
		router *chi.Mux
	)

	BeforeEach(func() {
		svc = &mockSubmitService{export: []byte("PK\x03\x04workbook")}
		h := submission.NewHandler(transport.NewBaseHandler(slog.New(slog.NewTextHandler(io.Discard, nil))), svc)

		router = chi.NewRouter()
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				next.ServeHTTP(w, r.WithContext(internal.ContextWithSupervisorID(r.Context(), "sup-1")))
			})
		})
		router.Post("/timesheets/{week}/submit", h.PostSubmit)
		router.Get("/timesheets/{week}/export.xlsx", h.GetExport)
	})

	serve := func(method, path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
		return rec
	}

	It("returns the submission outcome", func() {
		rec := serve(http.MethodPost, "/timesheets/"+week+"/submit")

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring(`"sink_ok":true`))
		Expect(svc.actorID).To(Equal("sup-1"))
		Expect(svc.lastWeek).To(Equal(week))
	})

	It("renders service errors", func() {
		svc.err = internal.ErrNothingToSubmit

		rec := serve(http.MethodPost, "/timesheets/"+week+"/submit")

		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(rec.Body.String()).To(ContainSubstring("NOTHING_TO_SUBMIT"))
	})

	It("serves the workbook as an attachment", func() {
		rec := serve(http.MethodGet, "/timesheets/"+week+"/export.xlsx")

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Header().Get("Content-Type")).To(ContainSubstring("spreadsheetml"))
		Expect(rec.Header().Get("Content-Disposition")).To(Equal(`attachment; filename="hours-2025-01-06.xlsx"`))
		Expect(rec.Body.Bytes()).To(Equal(svc.export))
	})

	It("names the workbook after the Monday of the requested week", func() {
		rec := serve(http.MethodGet, "/timesheets/2025-01-08/export.xlsx")

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Header().Get("Content-Disposition")).To(Equal(`attachment; filename="hours-2025-01-06.xlsx"`))
		Expect(svc.lastWeek).To(Equal("2025-01-08"))
	})
})
