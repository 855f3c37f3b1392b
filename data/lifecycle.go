package data

import "github.com/emzola/bookmarket/internal/fsm"

// BookEvent moves a book between statuses.
type BookEvent string

const (
	EventRequest  BookEvent = "request"
	EventReserve  BookEvent = "reserve"
	EventRelease  BookEvent = "release"
	EventSell     BookEvent = "sell"
	EventExchange BookEvent = "exchange"
)

// BookLifecycle is the table of allowed book status changes. Reserve is only
// fired by accepting a request; the others may also be fired by the owner.
// A reserved book holds an accepted request, so it can only be sold or
// exchanged, never released.
var BookLifecycle = fsm.New("book",
	fsm.Transition[string, BookEvent]{From: BookAvailable, Event: EventRequest, To: BookRequested},
	fsm.Transition[string, BookEvent]{From: BookAvailable, Event: EventReserve, To: BookReserved},
	fsm.Transition[string, BookEvent]{From: BookRequested, Event: EventReserve, To: BookReserved},
	fsm.Transition[string, BookEvent]{From: BookRequested, Event: EventRelease, To: BookAvailable},
	fsm.Transition[string, BookEvent]{From: BookReserved, Event: EventSell, To: BookSold},
	fsm.Transition[string, BookEvent]{From: BookReserved, Event: EventExchange, To: BookExchanged},
)

// OwnerBookEvent maps a status the owner asks for to the event that reaches it.
// Reserved is not in the map because only an accepted request reserves a book.
func OwnerBookEvent(target string) (BookEvent, bool) {
	switch target {
	case BookRequested:
		return EventRequest, true
	case BookAvailable:
		return EventRelease, true
	case BookSold:
		return EventSell, true
	case BookExchanged:
		return EventExchange, true
	}
	return "", false
}

// RequestEvent moves a book request between statuses.
type RequestEvent string

const (
	EventAccept RequestEvent = "accept"
	EventReject RequestEvent = "reject"
	EventCancel RequestEvent = "cancel"
)

// RequestCancelled is never stored: a cancelled request is deleted.
const RequestCancelled = "cancelled"

// RequestLifecycle is the table of allowed book request status changes.
var RequestLifecycle = fsm.New("book request",
	fsm.Transition[string, RequestEvent]{From: RequestPending, Event: EventAccept, To: RequestAccepted},
	fsm.Transition[string, RequestEvent]{From: RequestPending, Event: EventReject, To: RequestRejected},
	fsm.Transition[string, RequestEvent]{From: RequestPending, Event: EventCancel, To: RequestCancelled},
)

// DecisionEvent maps an owner's decision status to its request event.
func DecisionEvent(status string) (RequestEvent, bool) {
	switch status {
	case RequestAccepted:
		return EventAccept, true
	case RequestRejected:
		return EventReject, true
	}
	return "", false
}
