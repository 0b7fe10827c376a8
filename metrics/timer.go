package metrics

import (
	"time"

	"github.com/rpupo63/portfolio-site-backend/errs"
)

// ObserveDB records the duration and outcome of one repository call. Use as
//
//	defer metrics.ObserveDB("find_projects", "mongo", time.Now(), &err)
//
// Not-found results are not counted as errors.
func ObserveDB(operation, backend string, start time.Time, err *error) {
	DBOperationDuration.WithLabelValues(operation, backend).Observe(time.Since(start).Seconds())
	if err != nil && *err != nil && !errs.IsNotFound(*err) {
		DBOperationErrors.WithLabelValues(operation, backend).Inc()
	}
}
