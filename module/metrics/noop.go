package metrics

import (
	"github.com/onflow/mint-node/module"
)

var _ module.MintNodeMetrics = (*NoopCollector)(nil)

type NoopCollector struct{}

func NewNoopCollector() *NoopCollector {
	nc := &NoopCollector{}
	return nc
}

func (nc *NoopCollector) MessageSent(channel string, messageType string)     {}
func (nc *NoopCollector) MessageReceived(channel string, messageType string) {}
func (nc *NoopCollector) SendRetried(channel string)                         {}
func (nc *NoopCollector) SendFailed(channel string)                          {}
func (nc *NoopCollector) InboundDropped(channel string, reason string)       {}
func (nc *NoopCollector) RegisteredPeers(count int)                          {}
func (nc *NoopCollector) DKGSessionState(state string)                       {}
func (nc *NoopCollector) DKGMessageHandled()                                 {}
func (nc *NoopCollector) DKGMessagesPending(count int)                       {}
func (nc *NoopCollector) WalletRequestServed()                               {}
