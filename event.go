package cstack

import (
	"fmt"

	"github.com/Yehuda-blip/contextual-stack/cstackslots"
)

type Slot = cstackslots.Slot

// Plain is the slot that holds the unscoped writes of every stream.
const Plain = cstackslots.Plain

type EventKind int

const (
	OpenScope   EventKind = iota + 1 // open
	CloseScope                       // close
	RecordValue                      // record
)

func (k EventKind) String() string {
	switch k {
	case OpenScope:
		return "open"
	case CloseScope:
		return "close"
	case RecordValue:
		return "record"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is one entry in the event log. For RecordValue events
// Slot is always Plain.
type Event struct {
	Kind   EventKind
	Stream StreamInfo
	Slot   Slot
}

func (e Event) String() string {
	if e.Kind == RecordValue {
		return e.Kind.String() + " " + e.Stream.Name()
	}
	return fmt.Sprintf("%s %s[%d]", e.Kind, e.Stream.Name(), e.Slot)
}
