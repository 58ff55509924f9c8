package snapshot

// Option is a function that configures a Materializer.
type Option func(*Materializer)

// WithRequiredChannels configures the channels that receive zero-price
// placeholder rows for variants and entities with no listings.
func WithRequiredChannels(channels ...string) Option {
	return func(m *Materializer) {
		m.requiredChannels = channels
	}
}
