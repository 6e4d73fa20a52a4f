package codec

import (
	"github.com/onflow/mint-node/network"
)

// channelToMsgCodes maps each network channel to the codes of the messages
// that may be communicated on it.
var channelToMsgCodes = map[network.Channel][]MessageCode{
	network.MintChannel:   {CodePeerAnnounce, CodeDKGMessage},
	network.WalletChannel: {CodeWalletRequest},
}

// MsgCodesByChannel returns the message codes allowed on the given channel.
func MsgCodesByChannel(channel network.Channel) []MessageCode {
	return channelToMsgCodes[channel]
}

// AllowedOnChannel reports whether messages with the given code may be
// communicated on the given channel.
func AllowedOnChannel(channel network.Channel, code MessageCode) bool {
	for _, allowed := range channelToMsgCodes[channel] {
		if allowed == code {
			return true
		}
	}
	return false
}
