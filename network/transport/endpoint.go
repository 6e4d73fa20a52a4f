// Package transport provides the point-to-point connections mint nodes and
// wallets talk over: TCP streams carrying varint length-prefixed frames,
// addressed with multiaddrs.
package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"

	ma "github.com/multiformats/go-multiaddr"
	manet "github.com/multiformats/go-multiaddr/net"

	"github.com/onflow/mint-node/model/node"
)

// ErrClosed is returned by Accept once the endpoint has been closed.
var ErrClosed = errors.New("endpoint closed")

// Endpoint is a bound listener together with the addresses it is reachable at.
// One endpoint serves exactly one network role.
type Endpoint struct {
	cfg        Config
	listener   manet.Listener
	dialer     manet.Dialer
	localAddr  node.Address
	publicAddr node.Address
}

// Listen binds a new endpoint on an ephemeral port of cfg.ListenIP.
func Listen(cfg Config) (*Endpoint, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid transport config: %w", err)
	}

	laddr, err := ipTCPMultiaddr(cfg.ListenIP, 0)
	if err != nil {
		return nil, err
	}
	listener, err := manet.Listen(laddr)
	if err != nil {
		return nil, fmt.Errorf("could not listen on %s: %w", laddr, err)
	}

	port, err := tcpPort(listener.Multiaddr())
	if err != nil {
		_ = listener.Close()
		return nil, err
	}

	// a wildcard bind is reached locally through loopback
	localIP := cfg.ListenIP
	if net.ParseIP(localIP).IsUnspecified() {
		localIP = "127.0.0.1"
	}
	local, err := ipTCPMultiaddr(localIP, port)
	if err != nil {
		_ = listener.Close()
		return nil, err
	}

	publicIP := cfg.ListenIP
	if cfg.ExternalIP != "" {
		publicIP = cfg.ExternalIP
	}
	publicPort := port
	if cfg.ExternalPort != 0 {
		publicPort = cfg.ExternalPort
	}
	public, err := ipTCPMultiaddr(publicIP, publicPort)
	if err != nil {
		_ = listener.Close()
		return nil, err
	}

	return &Endpoint{
		cfg:        cfg,
		listener:   listener,
		localAddr:  node.AddressFromMultiaddr(local),
		publicAddr: node.AddressFromMultiaddr(public),
	}, nil
}

// LocalAddr returns the address this process can always dial to reach the endpoint.
func (e *Endpoint) LocalAddr() node.Address {
	return e.localAddr
}

// PublicAddr returns the address the endpoint advertises to other nodes.
func (e *Endpoint) PublicAddr() node.Address {
	return e.publicAddr
}

// Accept blocks until an inbound connection arrives. Once the endpoint is
// closed it returns ErrClosed.
func (e *Endpoint) Accept() (*Conn, error) {
	c, err := e.listener.Accept()
	if err != nil {
		if errors.Is(err, net.ErrClosed) {
			return nil, ErrClosed
		}
		return nil, fmt.Errorf("could not accept connection: %w", err)
	}
	return newConn(c, e.cfg.MaxMessageSize), nil
}

// Dial opens a new outbound connection to addr.
func (e *Endpoint) Dial(ctx context.Context, addr node.Address) (*Conn, error) {
	raddr, err := addr.Multiaddr()
	if err != nil {
		return nil, fmt.Errorf("could not parse destination: %w", err)
	}
	c, err := e.dialer.DialContext(ctx, raddr)
	if err != nil {
		return nil, fmt.Errorf("could not dial %s: %w", addr, err)
	}
	return newConn(c, e.cfg.MaxMessageSize), nil
}

// Close stops accepting connections. Connections already accepted stay open
// until their owners close them.
func (e *Endpoint) Close() error {
	return e.listener.Close()
}

func ipTCPMultiaddr(ip string, port uint16) (ma.Multiaddr, error) {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return nil, fmt.Errorf("invalid ip %q", ip)
	}
	proto := "ip6"
	if parsed.To4() != nil {
		proto = "ip4"
	}
	maddr, err := ma.NewMultiaddr(fmt.Sprintf("/%s/%s/tcp/%d", proto, parsed.String(), port))
	if err != nil {
		return nil, fmt.Errorf("could not build multiaddr for %s:%d: %w", ip, port, err)
	}
	return maddr, nil
}

func tcpPort(maddr ma.Multiaddr) (uint16, error) {
	value, err := maddr.ValueForProtocol(ma.P_TCP)
	if err != nil {
		return 0, fmt.Errorf("no tcp port in %s: %w", maddr, err)
	}
	port, err := strconv.ParseUint(value, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("malformed tcp port in %s: %w", maddr, err)
	}
	return uint16(port), nil
}
