package metrics

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Push sends every metric gathered by g to the Pushgateway at url, replacing
// the previous push for job. Grouping labels are added as extra path segments.
func Push(ctx context.Context, url, job string, g prometheus.Gatherer, grouping map[string]string) error {
	pusher := push.New(url, job).Gatherer(g)
	for name, value := range grouping {
		pusher = pusher.Grouping(name, value)
	}

	if err := pusher.PushContext(ctx); err != nil {
		return fmt.Errorf("failed to push metrics to %s: %w", url, err)
	}
	return nil
}
