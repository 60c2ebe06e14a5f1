package events_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/hours-portal/internal/core/events"
)

var _ = Describe("EventBus", func() {
	var bus *events.EventBus

	BeforeEach(func() {
		bus = events.NewEventBus(slog.New(slog.NewTextHandler(io.Discard, nil)))
	})

	It("delivers asynchronously published events to every subscriber", func() {
		var calls atomic.Int32
		handler := func(ctx context.Context, e events.Event) error {
			Expect(e.EventType()).To(Equal(events.EventTypeTimeSheetUpdated))
			calls.Add(1)
			return nil
		}
		bus.Subscribe(events.EventTypeTimeSheetUpdated, handler)
		bus.Subscribe(events.EventTypeTimeSheetUpdated, handler)

		Expect(bus.Publish(context.Background(), events.NewTimeSheetUpdatedEvent("sup-1", "emp-1", "2025-01-06", "2025-01-06", 8))).To(Succeed())
		bus.Wait()

		Expect(calls.Load()).To(Equal(int32(2)))
	})

	It("keeps handler contexts alive after the publisher's context is cancelled", func() {
		var handlerErr atomic.Value
		bus.Subscribe(events.EventTypeLoggedIn, func(ctx context.Context, _ events.Event) error {
			handlerErr.Store(fmt.Sprint(ctx.Err()))
			return nil
		})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		Expect(bus.Publish(ctx, events.NewLoggedInEvent("sup-1", "a@b.c"))).To(Succeed())
		bus.Wait()

		Expect(handlerErr.Load()).To(Equal("<nil>"))
	})

	It("ignores events nobody subscribed to", func() {
		Expect(bus.Publish(context.Background(), events.NewLoggedInEvent("sup-1", "a@b.c"))).To(Succeed())
		Expect(bus.PublishSync(context.Background(), events.NewLoggedInEvent("sup-1", "a@b.c"))).To(Succeed())
	})

	It("returns the first synchronous handler failure", func() {
		boom := errors.New("boom")
		var second bool
		bus.Subscribe(events.EventTypeSubmissionCompleted, func(context.Context, events.Event) error { return boom })
		bus.Subscribe(events.EventTypeSubmissionCompleted, func(context.Context, events.Event) error {
			second = true
			return nil
		})

		err := bus.PublishSync(context.Background(), events.NewSubmissionCompletedEvent("sup-1", "2025-01-06", 2, 13, true, false))

		Expect(err).To(MatchError(boom))
		Expect(second).To(BeFalse())
	})

	It("carries the submission payload", func() {
		e := events.NewSubmissionCompletedEvent("sup-1", "2025-01-06", 2, 13, true, false)
		Expect(e.EventID()).NotTo(BeEmpty())
		Expect(e.Payload()).To(HaveKeyWithValue("grand_total", 13.0))
		Expect(e.Payload()).To(HaveKeyWithValue("sink_ok", true))
	})
})
