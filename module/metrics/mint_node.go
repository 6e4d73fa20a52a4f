package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/onflow/mint-node/module"
)

var _ module.MintNodeMetrics = (*MintNodeCollector)(nil)

// sessionStates are the values of the state label, reported one-hot.
var sessionStates = []string{"absent", "initiated", "finalized"}

type MintNodeCollector struct {
	messagesSent     *prometheus.CounterVec
	messagesReceived *prometheus.CounterVec
	sendRetries      *prometheus.CounterVec
	sendFailures     *prometheus.CounterVec
	inboundDropped   *prometheus.CounterVec
	registeredPeers  prometheus.Gauge
	sessionState     *prometheus.GaugeVec
	dkgHandled       prometheus.Counter
	dkgPending       prometheus.Gauge
	walletServed     prometheus.Counter
}

// NewMintNodeCollector creates the collector and registers all of its metrics
// with the given registerer.
func NewMintNodeCollector(registerer prometheus.Registerer) *MintNodeCollector {
	mc := &MintNodeCollector{
		messagesSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespaceMintNode,
			Subsystem: subsystemNetwork,
			Name:      "messages_sent_total",
			Help:      "number of messages delivered to remote endpoints",
		}, []string{LabelChannel, LabelMessage}),
		messagesReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespaceMintNode,
			Subsystem: subsystemNetwork,
			Name:      "messages_received_total",
			Help:      "number of messages decoded from inbound connections",
		}, []string{LabelChannel, LabelMessage}),
		sendRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespaceMintNode,
			Subsystem: subsystemNetwork,
			Name:      "send_retries_total",
			Help:      "number of failed delivery attempts that were retried",
		}, []string{LabelChannel}),
		sendFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespaceMintNode,
			Subsystem: subsystemNetwork,
			Name:      "send_failures_total",
			Help:      "number of messages not delivered within the retry budget",
		}, []string{LabelChannel}),
		inboundDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespaceMintNode,
			Subsystem: subsystemNetwork,
			Name:      "inbound_dropped_total",
			Help:      "number of inbound connections dropped, by reason",
		}, []string{LabelChannel, LabelReason}),
		registeredPeers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespaceMintNode,
			Subsystem: subsystemDKG,
			Name:      "registered_peers",
			Help:      "number of entries in the peer registry, including this node",
		}),
		sessionState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespaceMintNode,
			Subsystem: subsystemDKG,
			Name:      "session_state",
			Help:      "1 for the state the dkg session is in, 0 for all others",
		}, []string{LabelState}),
		dkgHandled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespaceMintNode,
			Subsystem: subsystemDKG,
			Name:      "messages_handled_total",
			Help:      "number of dkg messages fed to the dkg engine",
		}),
		dkgPending: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespaceMintNode,
			Subsystem: subsystemDKG,
			Name:      "messages_pending",
			Help:      "number of dkg messages received before the session started",
		}),
		walletServed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespaceMintNode,
			Subsystem: subsystemMint,
			Name:      "wallet_requests_total",
			Help:      "number of wallet requests handed to the mint",
		}),
	}

	registerer.MustRegister(
		mc.messagesSent,
		mc.messagesReceived,
		mc.sendRetries,
		mc.sendFailures,
		mc.inboundDropped,
		mc.registeredPeers,
		mc.sessionState,
		mc.dkgHandled,
		mc.dkgPending,
		mc.walletServed,
	)

	return mc
}

func (mc *MintNodeCollector) MessageSent(channel string, messageType string) {
	mc.messagesSent.WithLabelValues(channel, messageType).Inc()
}

func (mc *MintNodeCollector) MessageReceived(channel string, messageType string) {
	mc.messagesReceived.WithLabelValues(channel, messageType).Inc()
}

func (mc *MintNodeCollector) SendRetried(channel string) {
	mc.sendRetries.WithLabelValues(channel).Inc()
}

func (mc *MintNodeCollector) SendFailed(channel string) {
	mc.sendFailures.WithLabelValues(channel).Inc()
}

func (mc *MintNodeCollector) InboundDropped(channel string, reason string) {
	mc.inboundDropped.WithLabelValues(channel, reason).Inc()
}

func (mc *MintNodeCollector) RegisteredPeers(count int) {
	mc.registeredPeers.Set(float64(count))
}

// DKGSessionState sets the gauge of the given state to 1 and all others to 0.
func (mc *MintNodeCollector) DKGSessionState(state string) {
	for _, s := range sessionStates {
		if s == state {
			mc.sessionState.WithLabelValues(s).Set(1)
			continue
		}
		mc.sessionState.WithLabelValues(s).Set(0)
	}
}

func (mc *MintNodeCollector) DKGMessageHandled() {
	mc.dkgHandled.Inc()
}

func (mc *MintNodeCollector) DKGMessagesPending(count int) {
	mc.dkgPending.Set(float64(count))
}

func (mc *MintNodeCollector) WalletRequestServed() {
	mc.walletServed.Inc()
}
