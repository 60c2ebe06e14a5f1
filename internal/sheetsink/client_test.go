package sheetsink_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/hours-portal/internal/department"
	"github.com/frahmantamala/hours-portal/internal/sheetsink"
	"github.com/frahmantamala/hours-portal/internal/submission"
)

var _ = Describe("Client", func() {
	var (
		client  *sheetsink.Client
		records []submission.Record
	)

	BeforeEach(func() {
		client = sheetsink.NewClient(sheetsink.Config{Timeout: time.Second}, slog.New(slog.NewTextHandler(io.Discard, nil)))
		records = []submission.Record{{
			EmployeeID:        "emp-2",
			PrimaryCompany:    "Card Shield",
			Department:        department.Sales,
			EmployeeFirstName: "Sarah",
			EmployeeLastName:  "Smith",
			TotalHours:        8,
			Rate:              30,
		}}
	})

	It("posts the records as a JSON array", func() {
		var (
			method      string
			contentType string
			body        []map[string]interface{}
		)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			method = r.Method
			contentType = r.Header.Get("Content-Type")
			Expect(json.NewDecoder(r.Body).Decode(&body)).To(Succeed())
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		Expect(client.Send(context.Background(), server.URL, records)).To(Succeed())

		Expect(method).To(Equal(http.MethodPost))
		Expect(contentType).To(Equal("application/json"))
		Expect(body).To(HaveLen(1))
		Expect(body[0]).To(HaveKeyWithValue("Primary company", "Card Shield"))
		Expect(body[0]).To(HaveKeyWithValue("Total hours", 8.0))
		Expect(body[0]).NotTo(HaveKey("EmployeeID"))
	})

	It("treats any response as sent", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		Expect(client.Send(context.Background(), server.URL, records)).To(Succeed())
	})

	It("fails on a local network error", func() {
		server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		url := server.URL
		server.Close()

		Expect(client.Send(context.Background(), url, records)).NotTo(Succeed())
	})

	It("gives up when the context expires", func() {
		release := make(chan struct{})
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer server.Close()
		defer close(release)

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		Expect(client.Send(ctx, server.URL, records)).NotTo(Succeed())
	})
})
