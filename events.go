package vault

import (
	"github.com/tendermint/tendermint/libs/common"
)

// Event is a structured notification produced by a state transition. Each
// event can render itself as a list of key-value tags so that an indexing
// observer does not have to understand the event payload.
type Event interface {
	Tags() []common.KVPair
}

// Emitter is a notification sink. Events are delivered in the order the
// operations were applied, after the state transition producing them was
// committed. Delivery is at-least-once; the store remains the source of
// truth.
type Emitter interface {
	Emit(Event)
}

// EmitterFunc turns a plain function into an Emitter.
type EmitterFunc func(Event)

// Emit calls the wrapped function.
func (f EmitterFunc) Emit(ev Event) {
	f(ev)
}

// NopEmitter returns an emitter that drops all events. Use it when no
// observer is wired in.
func NopEmitter() Emitter {
	return EmitterFunc(func(Event) {})
}
