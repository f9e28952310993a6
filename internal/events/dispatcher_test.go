package events_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/clock"
	"github.com/spec-kit/helpdesk/internal/events"
)

var _ = Describe("Dispatcher", func() {
	var (
		ctx        context.Context
		clk        *clock.FixedClock
		dispatcher *events.Dispatcher
	)

	BeforeEach(func() {
		ctx = context.Background()
		clk = clock.NewFixed(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
		dispatcher = events.NewDispatcher(zap.NewNop(), clk)
	})

	It("delivers to every subscriber of the published type", func() {
		var received []events.Event
		dispatcher.Subscribe(events.EventTicketCreated, func(_ context.Context, e events.Event) {
			received = append(received, e)
		})
		dispatcher.Subscribe(events.EventTicketCreated, func(_ context.Context, e events.Event) {
			received = append(received, e)
		})

		dispatcher.Publish(ctx, events.EventTicketCreated, "alice", events.TicketPayload{TicketID: "t1"})
		Expect(received).To(HaveLen(2))
		Expect(received[0].Actor).To(Equal("alice"))
		Expect(received[0].Timestamp).To(Equal(clk.Now()))
		Expect(received[0].ID).NotTo(BeEmpty())
	})

	It("does not deliver across event types", func() {
		called := false
		dispatcher.Subscribe(events.EventTicketAssigned, func(context.Context, events.Event) {
			called = true
		})

		dispatcher.Publish(ctx, events.EventTicketCreated, "alice", nil)
		Expect(called).To(BeFalse())
	})

	It("contains a panicking handler", func() {
		var after bool
		dispatcher.Subscribe(events.EventTicketCreated, func(context.Context, events.Event) {
			panic("boom")
		})
		dispatcher.Subscribe(events.EventTicketCreated, func(context.Context, events.Event) {
			after = true
		})

		Expect(func() {
			dispatcher.Publish(ctx, events.EventTicketCreated, "alice", nil)
		}).NotTo(Panic())
		Expect(after).To(BeTrue())
	})
})
