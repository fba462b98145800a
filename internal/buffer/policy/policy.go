package policy

// Policy decides which buffer the store drops when it runs out of capacity.
// Implementations decouple capacity management from storage logic; the store
// calls the On* hooks under its own lock discipline, so implementations keep
// their own.
type Policy[K comparable] interface {
	// OnAccess is called when a key is read or updated, letting recency or
	// frequency based policies adjust their state.
	OnAccess(key K)

	// OnAdd is called when a new key enters the store.
	OnAdd(key K)

	// OnRemove is called when a key leaves the store, whatever the reason.
	OnRemove(key K)

	// SelectVictim returns the key that should be evicted next. ok is false
	// when the policy tracks nothing.
	SelectVictim() (key K, ok bool)
}
