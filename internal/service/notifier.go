package service

import "go-factory-planner/internal/ws"

// Notifier pushes change events to connected clients. *ws.Hub implements it.
type Notifier interface {
	Publish(event ws.Event)
}

// Actor identifies who triggered a change, taken from the auth context
type Actor struct {
	ID    string
	Name  string
	Email string
}

// SystemActor is used when authentication is disabled
var SystemActor = Actor{ID: "system", Name: "System"}

func (a Actor) wsActor() *ws.Actor {
	return &ws.Actor{ID: a.ID, Name: a.Name, Email: a.Email}
}

// operatorID is nil for the implicit system actor
func (a Actor) operatorID() *string {
	if a.ID == "" || a.ID == SystemActor.ID {
		return nil
	}
	id := a.ID
	return &id
}

type nopNotifier struct{}

func (nopNotifier) Publish(ws.Event) {}

func notifierOrNop(n Notifier) Notifier {
	if n == nil {
		return nopNotifier{}
	}
	return n
}
