package codec

import (
	"fmt"

	"github.com/onflow/mint-node/model/messages"
)

// MessageCode is the first byte of every encoded envelope and names the type of
// the payload that follows.
type MessageCode uint8

func (m MessageCode) Uint8() uint8 {
	return uint8(m)
}

const (
	CodeMin MessageCode = iota

	// mint network
	CodePeerAnnounce
	CodeDKGMessage

	// wallet network
	CodeWalletRequest

	CodeMax
)

// MessageCodeFromInterface returns the correct Code based on the underlying type of message v.
func MessageCodeFromInterface(v interface{}) (MessageCode, string, error) {
	switch v.(type) {
	case *messages.PeerAnnounce:
		return CodePeerAnnounce, "messages.PeerAnnounce", nil
	case *messages.DKGMessage:
		return CodeDKGMessage, "messages.DKGMessage", nil
	case *messages.WalletRequest:
		return CodeWalletRequest, "messages.WalletRequest", nil
	default:
		return 0, "", fmt.Errorf("invalid encode type (%T)", v)
	}
}

// InterfaceFromMessageCode returns an interface with the correct underlying go type
// of the message code represents.
// Expected error returns during normal operations:
//   - ErrUnknownMsgCode if message code does not match any of the configured message codes above.
func InterfaceFromMessageCode(code MessageCode) (interface{}, string, error) {
	switch code {
	case CodePeerAnnounce:
		return &messages.PeerAnnounce{}, "messages.PeerAnnounce", nil
	case CodeDKGMessage:
		return &messages.DKGMessage{}, "messages.DKGMessage", nil
	case CodeWalletRequest:
		return &messages.WalletRequest{}, "messages.WalletRequest", nil
	default:
		return nil, "", NewUnknownMsgCodeErr(code)
	}
}

// MessageType returns the short type name of an encodable message, for logs
// and metric labels. Unknown values yield "unknown".
func MessageType(v interface{}) string {
	_, what, err := MessageCodeFromInterface(v)
	if err != nil {
		return "unknown"
	}
	return what
}
