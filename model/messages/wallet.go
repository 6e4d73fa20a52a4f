package messages

// WalletRequest is an RPC request sent by a wallet client to the wallet
// endpoint of a mint node. The payload is passed to the mint uninterpreted.
type WalletRequest struct {
	Payload string
}
