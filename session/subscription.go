package session

import "github.com/google/uuid"

// OnSubscribe is invoked exactly once for a Subscribe call: with a nil
// SessionError when the matching RECEIPT arrives, or with an error if the
// SUBSCRIBE frame could not be sent.
type OnSubscribe func(*SessionError, string)

// OnMessage is invoked zero or more times, once per MESSAGE frame routed
// to this subscription.
type OnMessage func(*SessionError, string)

// Subscription is the specification's Subscription Record: a destination
// plus the two handlers the caller supplied, stored keyed by the id this
// client generated for it.
type Subscription struct {
	ID          string
	Destination string
	OnSubscribe OnSubscribe
	OnMessage   OnMessage

	acknowledged bool
}

// subscriptionTable is the session's private id -> Subscription map. It
// replaces the teacher's list.List-backed SubscriptionList (server/client/
// subscription_list.go): that list models a FIFO queue of outbound
// acknowledgement-pending frames for a single connection, dequeued with
// Get(); this client instead needs long-lived, randomly-keyed lookup for
// the life of the session (§4.2.3's "dispatch table: subscription-id ->
// Subscription Record"), so a map is the better fit for the same "private,
// reached only through the owning type's API" shape the teacher's list has.
type subscriptionTable struct {
	byID map[string]*Subscription
}

func newSubscriptionTable() *subscriptionTable {
	return &subscriptionTable{byID: make(map[string]*Subscription)}
}

func (t *subscriptionTable) add(sub *Subscription) {
	t.byID[sub.ID] = sub
}

func (t *subscriptionTable) find(id string) (*Subscription, bool) {
	sub, ok := t.byID[id]
	return sub, ok
}

func (t *subscriptionTable) remove(id string) {
	delete(t.byID, id)
}

// newSubscriptionID produces a 128-bit random token rendered as a UUID
// string, satisfying §4.2.4's uniqueness requirement.
func newSubscriptionID() string {
	return uuid.NewString()
}
