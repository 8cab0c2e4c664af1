package cache

import "errors"

// ErrSnapshotExpired reports a read of a key whose entry is absent or
// past its TTL; callers resolve it by fetching fresh data.
var ErrSnapshotExpired = errors.New("dashboard snapshot expired")
