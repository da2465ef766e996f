package query

import (
	"context"
	"fmt"
	"net"
	"time"

	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"
	"golang.org/x/net/ipv6"

	ipgeomerrors "github.com/ipgeom/ipgeom/internal/errors"
)

// TracerouteUpdate is one probe's outcome at a given TTL.
type TracerouteUpdate struct {
	TTL     uint8
	Seq     int
	Address net.IP
	RTT     time.Duration
	Timeout bool
}

// TracerouteHop groups every probe performed at a single TTL.
type TracerouteHop struct {
	TTL    uint8
	Probes []TracerouteUpdate
}

// TracerouteResult is the outcome of a full traceroute run.
type TracerouteResult struct {
	Destination   net.IP
	MaxTTL        uint8
	QueriesPerHop int
	Hops          []TracerouteHop
	ReachedTarget bool
}

// TracerouteWithCallback sends ICMP echo probes with increasing TTL,
// following the same ladder algorithm classic traceroute uses: each hop
// along the path eventually exhausts its packet's TTL and replies with an
// ICMP Time Exceeded message, revealing itself as the probe's source
// address, until the destination itself replies with an Echo Reply.
// Probing stops at the first TTL where any probe's reply comes from the
// destination, or at maxTTL.
func TracerouteWithCallback(ctx context.Context, host string, maxTTL uint8, queriesPerHop int, waitTime time.Duration, version IPVersion, onUpdate func(TracerouteUpdate)) (*TracerouteResult, error) {
	dest, err := ResolveHost(ctx, host, version)
	if err != nil {
		return nil, err
	}

	isV6 := dest.To4() == nil
	network, proto := "ip4:icmp", 1
	if isV6 {
		network, proto = "ip6:ipv6-icmp", 58
	}

	conn, err := icmp.ListenPacket(network, "")
	if err != nil {
		return nil, &ipgeomerrors.NetError{Operation: "open icmp socket", Err: err, Details: host}
	}
	defer conn.Close()

	result := &TracerouteResult{Destination: dest, MaxTTL: maxTTL, QueriesPerHop: queriesPerHop}

	for ttl := uint8(1); ttl <= maxTTL; ttl++ {
		if err := setTTL(conn, isV6, int(ttl)); err != nil {
			return nil, &ipgeomerrors.NetError{Operation: "set ttl", Err: err, Details: fmt.Sprintf("ttl=%d", ttl)}
		}

		hop := TracerouteHop{TTL: ttl}
		reachedAtThisHop := false

		for seq := 0; seq < queriesPerHop; seq++ {
			update, reached, err := probeOnce(conn, dest, isV6, proto, ttl, seq, waitTime)
			if err != nil {
				return nil, err
			}
			hop.Probes = append(hop.Probes, update)
			onUpdate(update)
			if reached {
				reachedAtThisHop = true
			}
		}

		result.Hops = append(result.Hops, hop)
		if reachedAtThisHop {
			result.ReachedTarget = true
			break
		}
	}

	return result, nil
}

// Traceroute is TracerouteWithCallback with a no-op callback.
func Traceroute(ctx context.Context, host string, maxTTL uint8, queriesPerHop int, waitTime time.Duration, version IPVersion) (*TracerouteResult, error) {
	return TracerouteWithCallback(ctx, host, maxTTL, queriesPerHop, waitTime, version, func(TracerouteUpdate) {})
}

func setTTL(conn *icmp.PacketConn, isV6 bool, ttl int) error {
	if isV6 {
		return conn.IPv6PacketConn().SetHopLimit(ttl)
	}
	return conn.IPv4PacketConn().SetTTL(ttl)
}

func probeOnce(conn *icmp.PacketConn, dest net.IP, isV6 bool, proto int, ttl uint8, seq int, waitTime time.Duration) (TracerouteUpdate, bool, error) {
	msgType := icmp.Type(ipv4.ICMPTypeEcho)
	if isV6 {
		msgType = ipv6.ICMPTypeEchoRequest
	}
	msg := icmp.Message{
		Type: msgType,
		Code: 0,
		Body: &icmp.Echo{
			ID:   seq ^ 0xbeef,
			Seq:  seq,
			Data: []byte("ipgeom-traceroute"),
		},
	}
	wire, err := msg.Marshal(nil)
	if err != nil {
		return TracerouteUpdate{}, false, &ipgeomerrors.NetError{Operation: "marshal icmp probe", Err: err}
	}

	dst := &net.IPAddr{IP: dest}
	start := time.Now()
	if _, err := conn.WriteTo(wire, dst); err != nil {
		return TracerouteUpdate{}, false, &ipgeomerrors.NetError{Operation: "send icmp probe", Err: err, Details: dest.String()}
	}

	if err := conn.SetReadDeadline(time.Now().Add(waitTime)); err != nil {
		return TracerouteUpdate{}, false, &ipgeomerrors.NetError{Operation: "set read deadline", Err: err}
	}

	buf := make([]byte, 1500)
	n, peer, err := conn.ReadFrom(buf)
	if err != nil {
		return TracerouteUpdate{TTL: ttl, Seq: seq, Timeout: true}, false, nil
	}
	rtt := time.Since(start)

	reply, err := icmp.ParseMessage(proto, buf[:n])
	if err != nil {
		return TracerouteUpdate{TTL: ttl, Seq: seq, Timeout: true}, false, nil
	}

	peerIP := peer.(*net.IPAddr).IP
	reached := reply.Type == ipv4.ICMPTypeEchoReply || reply.Type == ipv6.ICMPTypeEchoReply

	return TracerouteUpdate{
		TTL:     ttl,
		Seq:     seq,
		Address: peerIP,
		RTT:     rtt,
	}, reached, nil
}
