package commands

import (
	"fmt"

	"pickup/internal/core/domain/model/order"
)

// SyncOutcome is the result of syncing one order.
type SyncOutcome struct {
	OrderCode        string
	CainiaoOrderCode string
	Status           order.Status
	Err              error
}

// Succeeded reports whether the order synced without error.
func (o SyncOutcome) Succeeded() bool {
	return o.Err == nil
}

// Line renders the outcome for CLI output.
func (o SyncOutcome) Line() string {
	remote := o.CainiaoOrderCode
	if remote == "" {
		remote = "-"
	}
	if o.Err != nil {
		return fmt.Sprintf("[FAIL] %s (%s): %v", o.OrderCode, remote, o.Err)
	}
	return fmt.Sprintf("[OK]   %s (%s) status=%s", o.OrderCode, remote, o.Status)
}

// SyncReport summarises a sync run. Per-order failures are recorded here and
// never turn into an error of the run itself.
type SyncReport struct {
	Operation string
	Total     int
	Succeeded int
	Failed    int
	// Skipped is set when another run held the batch lock.
	Skipped bool
	Items   []SyncOutcome
}

func (r *SyncReport) add(outcome SyncOutcome) {
	r.Total++
	if outcome.Succeeded() {
		r.Succeeded++
	} else {
		r.Failed++
	}
	r.Items = append(r.Items, outcome)
}

// Lines returns one line per order followed by a summary line.
func (r SyncReport) Lines() []string {
	if r.Skipped {
		return []string{fmt.Sprintf("%s: skipped, another run is in progress", r.Operation)}
	}
	if r.Total == 0 {
		return []string{fmt.Sprintf("%s: no matching orders", r.Operation)}
	}

	lines := make([]string, 0, len(r.Items)+1)
	for _, item := range r.Items {
		lines = append(lines, item.Line())
	}
	return append(lines, fmt.Sprintf("%s: %d total, %d succeeded, %d failed",
		r.Operation, r.Total, r.Succeeded, r.Failed))
}
