package operations

import (
	"log/slog"
	"time"

	"github.com/ruralbankph/loan_inquiry_relay/inits"
	"github.com/ruralbankph/loan_inquiry_relay/models"
)

// RecordSubmission notes a relayed inquiry in the ledger so repeats inside
// the cooldown window can be suppressed. Re-inserting the same email
// replaces the previous entry, refreshing its expiry.
func RecordSubmission(email string, cooldown time.Duration) error {
	// RFC3339Nano keeps full precision and sorts lexicographically, which
	// the expiry index relies on.
	sub := &models.Submission{
		Email:  email,
		Expiry: time.Now().Add(cooldown).Format(time.RFC3339Nano),
	}

	txn := inits.DB.Txn(true)
	defer txn.Abort()

	if err := txn.Insert("submission", sub); err != nil {
		return err
	}
	txn.Commit()

	slog.Debug("submission recorded", "email", email)
	return nil
}

// SeenRecently reports whether the email has a live ledger entry. Expiry is
// checked here rather than trusting the sweep, which runs on an interval.
func SeenRecently(email string) (bool, error) {
	txn := inits.DB.Txn(false)
	defer txn.Abort()

	obj, err := txn.First("submission", "id", email)
	if err != nil {
		return false, err
	}
	if obj == nil {
		return false, nil
	}

	sub := obj.(*models.Submission)
	expiryTime, err := time.Parse(time.RFC3339Nano, sub.Expiry)
	if err != nil {
		return false, nil
	}
	return expiryTime.After(time.Now()), nil
}
