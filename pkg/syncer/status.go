package syncer

// State is the aggregate user-facing sync status
type State string

const (
	// StateLoading means a query or mutation is in flight
	StateLoading State = "loading"
	// StateError means a query or mutation failed and has not been reconciled
	StateError State = "error"
	// StateSuccess means the last call settled recently; it decays to idle
	StateSuccess State = "success"
	// StateIdle means nothing is in flight and nothing recently settled
	StateIdle State = "idle"
)

// Snapshot captures the coordinator's signals plus the board contents a
// caller needs to drive its affordances
type Snapshot struct {
	State             State `json:"state"`
	QueryInFlight     bool  `json:"query_in_flight"`
	MutationsInFlight int   `json:"mutations_in_flight"`
	ReorderPending    bool  `json:"reorder_pending"`
	QueueLength       int   `json:"queue_length"`
}

// Controls are the derived affordance flags for a caller, computed purely
// from a Snapshot so no rendering concern leaks into the coordinator
type Controls struct {
	ShuffleDisabled bool `json:"shuffle_disabled"`
	ResetDisabled   bool `json:"reset_disabled"`
	AdvanceDisabled bool `json:"advance_disabled"`
	EditDisabled    bool `json:"edit_disabled"`
	ShowError       bool `json:"show_error"`
}

// ProjectControls derives the affordance flags from a snapshot:
//   - shuffle and reset are disabled while any mutation is outstanding
//   - advance is additionally disabled while loading or when the queue is
//     empty
//   - edits are disabled while a reorder batch is pending, so interleaved
//     edits cannot race against stale order values
func ProjectControls(s Snapshot) Controls {
	mutating := s.MutationsInFlight > 0 || s.ReorderPending

	return Controls{
		ShuffleDisabled: mutating,
		ResetDisabled:   mutating,
		AdvanceDisabled: mutating || s.QueryInFlight || s.QueueLength == 0,
		EditDisabled:    mutating,
		ShowError:       s.State == StateError,
	}
}
