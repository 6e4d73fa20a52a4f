package metrics

const (
	LabelChannel = "channel"
	LabelMessage = "message"
	LabelReason  = "reason"
	LabelState   = "state"
)

const (
	namespaceMintNode = "mint_node"
	subsystemNetwork  = "network"
	subsystemDKG      = "dkg"
	subsystemMint     = "mint"
)

// reasons an inbound connection is dropped
const (
	ReasonAccept       = "accept"
	ReasonFrame        = "frame"
	ReasonDecode       = "decode"
	ReasonUnauthorized = "unauthorized"
	ReasonRejected     = "rejected"
)
