package logging

import (
	"encoding/hex"

	"github.com/rs/zerolog"

	"github.com/onflow/mint-node/model/node"
)

func ID(id node.Identity) string {
	return id.String()
}

func IDs(ids node.IdentityList) []string {
	ss := make([]string, 0, len(ids))
	for _, id := range ids {
		ss = append(ss, hex.EncodeToString(id[:]))
	}
	return ss
}

// Entry returns a log object describing a registry entry.
func Entry(entry node.Entry) *zerolog.Event {
	return zerolog.Dict().
		Str("identity", entry.Identity.String()).
		Str("address", entry.Address.String())
}

// Truncate hex encodes at most n leading bytes of b, for logging payloads.
func Truncate(b []byte, n int) string {
	if len(b) <= n {
		return hex.EncodeToString(b)
	}
	return hex.EncodeToString(b[:n]) + "..."
}
