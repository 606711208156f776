package rentslot

// Hooks lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking; wrap slow sinks with
// hooks/async.
type Hooks interface {
	// The slot length changed from -> to.
	Resized(slot string, from, to int)

	// Growth was funded: amount moved payer -> slot.
	Funded(slot, payer string, amount uint64)

	// Shrink was refunded: amount moved slot -> payer.
	Refunded(slot, payer string, amount uint64)

	// A required transfer failed after the slot was resized.
	FundingFailed(slot string, required uint64, err error)

	// A resize was undone after FundingFailed.
	ResizeRolledBack(slot string, from, to int)

	// The slot length no longer matches its encoded content: declared is the
	// length the stored record implies, actual is the slot length. err is the
	// failure that left it this way.
	InconsistentWindow(slot string, declared, actual int, err error)

	// An append was refused because the key is already present.
	DuplicateRejected(slot string)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) Resized(string, int, int)                   {}
func (NopHooks) Funded(string, string, uint64)              {}
func (NopHooks) Refunded(string, string, uint64)            {}
func (NopHooks) FundingFailed(string, uint64, error)        {}
func (NopHooks) ResizeRolledBack(string, int, int)          {}
func (NopHooks) InconsistentWindow(string, int, int, error) {}
func (NopHooks) DuplicateRejected(string)                   {}
