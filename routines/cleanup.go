package routines

import (
	"log/slog"
	"time"

	"github.com/hashicorp/go-memdb"

	"github.com/ruralbankph/loan_inquiry_relay/models"
)

// StartCleanupRoutine sweeps expired ledger entries on a fixed interval.
// The ledger only has to be accurate enough to suppress rapid duplicates;
// lookups re-check expiry themselves, so a lagging sweep is harmless.
// A non-positive interval (cooldown disabled) skips the sweep entirely.
func StartCleanupRoutine(db *memdb.MemDB, interval time.Duration) {
	if interval <= 0 {
		slog.Info("ledger sweep disabled", "interval", interval)
		return
	}

	cleanup(db)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		cleanup(db)
	}
}

func cleanup(db *memdb.MemDB) {
	currentTime := time.Now()

	txn := db.Txn(true)
	defer txn.Abort()

	it, err := txn.Get("submission", "expiry")
	if err != nil {
		slog.Error("ledger sweep failed", "error", err)
		return
	}

	var expired []*models.Submission
	for obj := it.Next(); obj != nil; obj = it.Next() {
		sub := obj.(*models.Submission)
		expiryTime, err := time.Parse(time.RFC3339Nano, sub.Expiry)
		if err != nil {
			slog.Warn("ledger entry has malformed expiry, dropping", "email", sub.Email)
			expired = append(expired, sub)
			continue
		}
		if expiryTime.Before(currentTime) {
			expired = append(expired, sub)
		}
	}

	for _, sub := range expired {
		if err := txn.Delete("submission", sub); err != nil {
			slog.Error("ledger delete failed", "email", sub.Email, "error", err)
			continue
		}
		slog.Debug("expired ledger entry removed", "email", sub.Email)
	}

	txn.Commit()
}
