package apply

// State tracks a row through the apply pipeline. A row either walks the full
// chain Pending → EntityResolved → VariantResolved → ChannelResolved →
// Published → Priced, or drops out of any step into the terminal Skipped
// state. Failed marks rows whose price mutation was rejected remotely after
// every resolution step succeeded.
type State string

const (
	// StatePending is the initial state of every row.
	StatePending State = "pending"
	// StateEntityResolved means the parent entity identifier is known.
	StateEntityResolved State = "entity_resolved"
	// StateVariantResolved means the variant identifier is known.
	StateVariantResolved State = "variant_resolved"
	// StateChannelResolved means the channel identifier is known.
	StateChannelResolved State = "channel_resolved"
	// StatePublished means the parent entity is published into the channel.
	StatePublished State = "published"
	// StatePriced is the terminal success state.
	StatePriced State = "priced"
	// StateSkipped is the terminal state for rows that failed a resolution
	// or validation step; Reason carries the cause.
	StateSkipped State = "skipped"
	// StateFailed is the terminal state for rows whose price mutation was
	// rejected by the gateway.
	StateFailed State = "failed"
)

// Terminal reports whether the state ends the row's state machine.
func (s State) Terminal() bool {
	return s == StatePriced || s == StateSkipped || s == StateFailed
}
