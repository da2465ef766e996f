package main

import "time"

// buildEpoch stamps a freshly built binary geo-database with the current
// time, matching spec.md §4.6's build_epoch metadata field.
func buildEpoch() int64 { return time.Now().Unix() }
