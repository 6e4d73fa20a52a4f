package module

// NetworkMetrics tracks the messages a node exchanges on its endpoints.
type NetworkMetrics interface {
	// MessageSent records a message delivered to a remote endpoint.
	MessageSent(channel string, messageType string)

	// MessageReceived records a message decoded from an inbound connection.
	MessageReceived(channel string, messageType string)

	// SendRetried records a delivery attempt that failed and was retried.
	SendRetried(channel string)

	// SendFailed records a message that could not be delivered within the retry budget.
	SendFailed(channel string)

	// InboundDropped records an inbound connection closed because of a bad
	// frame, an undecodable payload or a rejected message.
	InboundDropped(channel string, reason string)
}

// DKGMetrics tracks peer discovery and the DKG session.
type DKGMetrics interface {
	// RegisteredPeers reports the current size of the peer registry, self included.
	RegisteredPeers(count int)

	// DKGSessionState reports the state the session just entered.
	DKGSessionState(state string)

	// DKGMessageHandled records a DKG message fed to the engine.
	DKGMessageHandled()

	// DKGMessagesPending reports how many early DKG messages wait for the session to start.
	DKGMessagesPending(count int)
}

// MintMetrics tracks the mint serving wallet clients.
type MintMetrics interface {
	// WalletRequestServed records a wallet request handed to the mint.
	WalletRequestServed()
}

// MintNodeMetrics is the full set of metrics reported by a mint node.
type MintNodeMetrics interface {
	NetworkMetrics
	DKGMetrics
	MintMetrics
}
