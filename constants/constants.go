package constants

const (
	DefaultBatchSize   = 32
	DefaultPublishSize = 2500
)
