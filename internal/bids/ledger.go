package bids

// Ledger tracks every identity classified so far in one batch. The
// orchestrator owns a single Ledger per run; it exists purely for run-index
// disambiguation and is never persisted.
type Ledger struct {
	entries []Identity
}

// Reassignment records a previously classified identity that gained a run
// index because a later scan collided with it.
type Reassignment struct {
	Before Identity
	After  Identity
}

// NewLedger constructs an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// Entries returns a copy of the classified identities in classification order.
func (l *Ledger) Entries() []Identity {
	out := make([]Identity, len(l.entries))
	copy(out, l.entries)
	return out
}

// Add registers an identity, assigning run indexes when it collides with
// earlier entries. The first colliding entry, classified before anyone knew
// a run entity would be needed, is retroactively indexed and reported so the
// caller can rename its artifacts.
func (l *Ledger) Add(identity Identity) (Identity, []Reassignment) {
	maxRun := 0
	var unindexed []int
	for i, entry := range l.entries {
		if !entry.collidesWith(identity) {
			continue
		}
		if entry.Run == 0 {
			unindexed = append(unindexed, i)
		} else if entry.Run > maxRun {
			maxRun = entry.Run
		}
	}

	var reassigned []Reassignment
	if len(unindexed) > 0 || maxRun > 0 {
		for _, i := range unindexed {
			maxRun++
			before := l.entries[i]
			after := before
			after.Run = maxRun
			l.entries[i] = after
			reassigned = append(reassigned, Reassignment{Before: before, After: after})
		}
		maxRun++
		identity.Run = maxRun
	}

	l.entries = append(l.entries, identity)
	return identity, reassigned
}
