package metric

import (
	"context"
	"time"

	"bookd/src-server/model"
	"bookd/src-server/utils"
)

// database measures the latency of the time-overlap prefilter against a
// calendar that doesn't exist, so the query plan is the real one but the
// result set is empty.
func database(as *utils.AppState) (time.Duration, error) {
	start := time.Now()
	if _, err := model.OverlappingTimeCandidates(context.Background(), as.BunDB, "", 0, 1); err != nil {
		return 0, err
	}
	return time.Since(start), nil
}
