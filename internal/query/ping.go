package query

import (
	"context"
	"fmt"
	"net"
	"time"

	probing "github.com/prometheus-community/pro-bing"

	ipgeomerrors "github.com/ipgeom/ipgeom/internal/errors"
)

// IPVersion restricts host resolution to one address family. The zero
// value, IPVersionAny, accepts whichever the resolver returns first.
type IPVersion int

const (
	IPVersionAny IPVersion = iota
	IPVersionV4
	IPVersionV6
)

// PingUpdate is the outcome of a single echo probe. Replies are delivered
// to the caller's callback as they arrive; probes that get no reply are
// not passed to the callback and appear only in PingResult.Updates, with
// Lost set.
type PingUpdate struct {
	Seq    int
	RTT    time.Duration
	Source net.IP
	Size   int
	TTL    int
	Lost   bool
}

// PingResult summarizes a full ping run.
type PingResult struct {
	IP          net.IP
	Transmitted int
	Received    int
	Updates     []PingUpdate
	AvgRTT      time.Duration
	MinRTT      time.Duration
	MaxRTT      time.Duration
	StdDevRTT   time.Duration
	TotalTime   time.Duration
}

// ResolveHost resolves host to a single address, optionally restricted to
// version.
func ResolveHost(ctx context.Context, host string, version IPVersion) (net.IP, error) {
	resolver := net.DefaultResolver
	addrs, err := resolver.LookupIPAddr(ctx, host)
	if err != nil {
		return nil, &ipgeomerrors.NetError{Operation: "resolve host", Err: err, Details: host}
	}
	for _, addr := range addrs {
		switch version {
		case IPVersionV4:
			if addr.IP.To4() != nil {
				return addr.IP, nil
			}
		case IPVersionV6:
			if addr.IP.To4() == nil {
				return addr.IP, nil
			}
		default:
			return addr.IP, nil
		}
	}
	return nil, &ipgeomerrors.NetError{Operation: "resolve host", Err: fmt.Errorf("no matching address family"), Details: host}
}

// PingWithCallback sends probes ICMP echo requests to host, invoking
// onUpdate for each echo reply as it arrives and returning aggregate
// statistics once all probes have completed. Probes that time out do not
// trigger onUpdate.
func PingWithCallback(ctx context.Context, host string, timeout time.Duration, probes int, interval time.Duration, iface string, version IPVersion, onUpdate func(PingUpdate)) (*PingResult, error) {
	ip, err := ResolveHost(ctx, host, version)
	if err != nil {
		return nil, err
	}

	pinger, err := probing.NewPinger(ip.String())
	if err != nil {
		return nil, &ipgeomerrors.NetError{Operation: "create pinger", Err: err, Details: host}
	}
	pinger.SetPrivileged(true)
	pinger.Count = probes
	pinger.Timeout = timeout
	pinger.Interval = interval
	if iface != "" {
		pinger.InterfaceName = iface
	}
	if ip.To4() == nil {
		pinger.SetIPProtocol("ip6")
	}

	updates := make([]PingUpdate, 0, probes)
	pinger.OnRecv = func(pkt *probing.Packet) {
		updates = append(updates, PingUpdate{
			Seq:    pkt.Seq,
			RTT:    pkt.Rtt,
			Source: pkt.IPAddr.IP,
			Size:   pkt.Nbytes,
			TTL:    pkt.TTL,
		})
		onUpdate(updates[len(updates)-1])
	}

	start := time.Now()
	runErr := pinger.RunWithContext(ctx)
	total := time.Since(start)
	if runErr != nil {
		return nil, &ipgeomerrors.NetError{Operation: "ping", Err: runErr, Details: host}
	}

	stats := pinger.Statistics()
	for len(updates) < stats.PacketsSent {
		updates = append(updates, PingUpdate{Seq: len(updates), Lost: true})
	}

	return &PingResult{
		IP:          ip,
		Transmitted: stats.PacketsSent,
		Received:    stats.PacketsRecv,
		Updates:     updates,
		AvgRTT:      stats.AvgRtt,
		MinRTT:      stats.MinRtt,
		MaxRTT:      stats.MaxRtt,
		StdDevRTT:   stats.StdDevRtt,
		TotalTime:   total,
	}, nil
}

// Ping is PingWithCallback with a no-op callback.
func Ping(ctx context.Context, host string, timeout time.Duration, probes int, interval time.Duration, iface string, version IPVersion) (*PingResult, error) {
	return PingWithCallback(ctx, host, timeout, probes, interval, iface, version, func(PingUpdate) {})
}
