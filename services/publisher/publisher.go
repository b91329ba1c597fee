package publisher

// Publisher represents a service for publishing scrape notifications
type Publisher interface {
	// Publish publishes a stored-record message to the stream
	Publish(message []byte) error

	// Close closes the publisher connection
	Close() error
}
