package usecases

import (
	"github.com/orris-inc/rollcall/internal/domain/proof"
)

// Reconcile splits a submitted batch into records to delete and records to
// keep. With per-record results only pairs marked ACCEPTED are deleted.
// Without them a positive accepted count deletes the whole batch, unless
// strict is set, in which case nothing is deleted.
func Reconcile(submitted []*proof.Record, outcome *proof.SyncOutcome, strict bool) (remove, retain []*proof.Record) {
	if outcome == nil {
		return nil, submitted
	}

	if outcome.HasPerRecordResults() {
		accepted := outcome.AcceptedKeys()
		for _, r := range submitted {
			if _, ok := accepted[r.Key()]; ok {
				remove = append(remove, r)
			} else {
				retain = append(retain, r)
			}
		}
		return remove, retain
	}

	if outcome.Accepted > 0 && !strict {
		return submitted, nil
	}
	return nil, submitted
}
