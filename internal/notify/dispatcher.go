package notify

import (
	"context"
	"log"
)

// Dispatcher consumes published events on its own goroutine and hands
// rendered messages to the mailer. Nothing here can fail the workflow
// that published the event: a full buffer drops the event with a log
// line, and delivery errors are logged and forgotten.
type Dispatcher struct {
	events     chan Event
	mailer     Mailer
	adminEmail string
}

func NewDispatcher(mailer Mailer, adminEmail string) *Dispatcher {
	return &Dispatcher{
		events:     make(chan Event, 64),
		mailer:     mailer,
		adminEmail: adminEmail,
	}
}

// Publish enqueues an event without ever blocking the caller.
func (d *Dispatcher) Publish(ev Event) {
	select {
	case d.events <- ev:
	default:
		log.Printf("notify: dropping event %s (%s), buffer full", ev.ID, ev.Kind)
	}
}

// Run consumes events until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) {
	for {
		select {
		case ev := <-d.events:
			d.deliver(ev)
		case <-ctx.Done():
			return
		}
	}
}

func (d *Dispatcher) deliver(ev Event) {
	if ev.Kind == KindOrderCreated {
		subject, body := adminMessage(ev.Order)
		if err := d.mailer.Send(d.adminEmail, subject, body); err != nil {
			log.Printf("notify: event %s: admin mail failed: %v", ev.ID, err)
		}
	}

	if ev.Order.CustomerEmail == "" {
		log.Printf("notify: event %s: no customer email for order %d", ev.ID, ev.Order.ID)
		return
	}

	subject, body := customerMessage(ev.Kind, ev.Order)
	if err := d.mailer.Send(ev.Order.CustomerEmail, subject, body); err != nil {
		log.Printf("notify: event %s: customer mail failed: %v", ev.ID, err)
	}
}
