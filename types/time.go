package types

import "time"

// Timestamp is the runtime's moment: milliseconds since the Unix
// epoch, as pallet_timestamp stores it.
type Timestamp uint64

// TimeToTimestamp converts a time.Time to a Timestamp.
// Sub-millisecond precision is dropped; times before the epoch clamp
// to zero.
func TimeToTimestamp(t time.Time) Timestamp {
	ms := t.UnixMilli()
	if ms < 0 {
		return 0
	}
	return Timestamp(ms)
}

// ToTime converts a Timestamp to a time.Time (UTC).
func (ts Timestamp) ToTime() time.Time {
	return time.UnixMilli(int64(ts)).UTC()
}

// BlockTime is the target block time of the superorganism node.
const BlockTime = 6 * time.Second

// BlocksIn returns how many blocks cover d at BlockTime, rounding up.
// Round durations in the runtime are configured in blocks.
func BlocksIn(d time.Duration) BlockNumber {
	if d <= 0 {
		return 0
	}
	return BlockNumber((d + BlockTime - 1) / BlockTime)
}

// Duration converts a block count back to wall time at BlockTime.
func (n BlockNumber) Duration() time.Duration {
	return time.Duration(n) * BlockTime
}
