package events

// Subscriber is the interface for receiving raw event payloads.
type Subscriber interface {
	// Subscribe returns a channel of payloads for the topic plus a cancel
	// function that unsubscribes and closes the channel.
	Subscribe(topic string) (<-chan []byte, func(), error)
	Close() error
}

// Compile-time check that NATSSubscriber implements Subscriber.
var _ Subscriber = (*NATSSubscriber)(nil)
