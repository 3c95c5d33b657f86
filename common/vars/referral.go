package vars

import (
	"eventdesk/model"
	"sync/atomic"
	"time"
)

// ReferralSnapshot is the last campaign statistics computed by the cron.
type ReferralSnapshot struct {
	Statistics  model.ReferralStatistics `json:"statistics"`
	Campaigns   []string                 `json:"campaigns"`
	RefreshedAt time.Time                `json:"refreshed_at"`
}

// referralSnapshotPtr allows lock-free reads with atomic updates.
var referralSnapshotPtr atomic.Pointer[ReferralSnapshot]

// GetReferralSnapshot returns the current snapshot, or nil before the first
// refresh.
func GetReferralSnapshot() *ReferralSnapshot {
	return referralSnapshotPtr.Load()
}

// SetReferralSnapshot atomically replaces the snapshot. The campaigns slice is
// copied so callers may keep mutating theirs.
func SetReferralSnapshot(snapshot ReferralSnapshot) {
	campaigns := make([]string, len(snapshot.Campaigns))
	copy(campaigns, snapshot.Campaigns)
	snapshot.Campaigns = campaigns

	referralSnapshotPtr.Store(&snapshot)
}

// ResetReferralSnapshot clears the snapshot.
func ResetReferralSnapshot() {
	referralSnapshotPtr.Store(nil)
}
