package constants

import "time"

const (
	KafkaBatchTimeout = 10 * time.Millisecond
	KafkaWriteTimeout = 10 * time.Second
)

const (
	DefaultEnrichmentTimeout = 5 * time.Second
)

const (
	CacheKeyPrefixProcessed = "moderation:processed:"
)

const (
	DefaultInputTopic  = "requests-in"
	DefaultOutputTopic = "requests-out"
)

const (
	DefaultMongoDBName        = "modgate"
	ProcessedEventsCollection = "processed_events"
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	DefaultRecordTTL = 30 * 24 * time.Hour
)

const (
	DefaultListLimit = 100
	MaxListLimit     = 1000
)

const (
	HTTPStatusOKMin = 200
	HTTPStatusOKMax = 300
)
