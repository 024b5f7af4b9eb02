package processor

import (
	"time"

	"github.com/mauv0809/touchline/internal/metrics"
	"github.com/mauv0809/touchline/internal/pubsub"
)

// Results of matches that kicked off longer ago than this are recorded
// without posting a notification, so backfilled fixtures stay quiet.
const notifyWindow = 24 * time.Hour

// Processor handles the business logic of processing finished matches.
type Processor struct {
	store    Store
	pubsub   pubsub.PubSubClient
	notifier Notifier
	metrics  metrics.Metrics
	now      func() time.Time
}
