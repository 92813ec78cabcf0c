package discovery

import (
	"context"
	"fmt"
	"net"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/espeasy-tools/espcfg/internal/device"
)

const (
	// DefaultProbeTimeout bounds a single unit status probe
	DefaultProbeTimeout = 1 * time.Second

	// DefaultProbeConcurrency is the number of parallel probe workers
	DefaultProbeConcurrency = 64

	// nodeChaseFactor stretches the timeout when probing peers learned
	// from another unit's node list; those answer more slowly
	nodeChaseFactor = 3
)

// Prober finds ESPEasy units by sweeping an IPv4 /24 and asking each
// address for its /json status document. Units report the peers they
// know about, so a second pass probes peers the sweep missed.
type Prober struct {
	// Client is the device client used for status probes
	Client *device.Client

	// Timeout bounds each individual probe
	Timeout time.Duration

	// Concurrency is the number of parallel probe workers
	Concurrency int

	// Log receives per-probe debug records; nil disables logging
	Log *zap.Logger
}

// NewProber creates a prober with default timeout and concurrency.
func NewProber(log *zap.Logger) *Prober {
	if log == nil {
		log = zap.NewNop()
	}
	return &Prober{
		Client:      device.NewClient(),
		Timeout:     DefaultProbeTimeout,
		Concurrency: DefaultProbeConcurrency,
		Log:         log,
	}
}

// Scan sweeps the /24 network containing the given IPv4 address and
// returns every unit that answered, sorted by name. Peers learned from
// unit node lists are probed in a follow-up pass with a stretched
// timeout.
func (p *Prober) Scan(ctx context.Context, iprange string) ([]*Unit, error) {
	addrs, err := expandRange(iprange)
	if err != nil {
		return nil, err
	}

	p.Log.Info("running discovery", zap.String("range", iprange), zap.Int("addresses", len(addrs)))

	units := make(map[string]*Unit)
	for _, u := range p.ProbeAddresses(ctx, addrs, "probe", p.Timeout) {
		units[u.Name] = u
	}
	p.Log.Info("discovered units", zap.Int("count", len(units)))

	// units don't always answer a direct sweep; chase the peers they
	// report about each other
	var chase []string
	seen := make(map[string]bool)
	for _, u := range units {
		seen[u.IP] = true
	}
	for _, u := range units {
		for _, peer := range p.peersOf(ctx, u) {
			if peer != "" && !seen[peer] {
				seen[peer] = true
				chase = append(chase, peer)
			}
		}
	}

	if len(chase) > 0 {
		extra := p.ProbeAddresses(ctx, chase, "node", p.Timeout*nodeChaseFactor)
		if len(extra) > 0 {
			p.Log.Info("discovered units via unit nodes", zap.Int("count", len(extra)))
		}
		for _, u := range extra {
			if _, ok := units[u.Name]; !ok {
				units[u.Name] = u
			}
		}
	}

	out := make([]*Unit, 0, len(units))
	for _, u := range units {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ProbeAddresses probes the given addresses concurrently and returns
// the units that answered.
func (p *Prober) ProbeAddresses(ctx context.Context, addrs []string, source string, timeout time.Duration) []*Unit {
	concurrency := p.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultProbeConcurrency
	}

	work := make(chan string)
	found := make(chan *Unit)

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for addr := range work {
				if u := p.probeOne(ctx, addr, source, timeout); u != nil {
					found <- u
				}
			}
		}()
	}

	go func() {
		for _, addr := range addrs {
			work <- addr
		}
		close(work)
		wg.Wait()
		close(found)
	}()

	var units []*Unit
	for u := range found {
		units = append(units, u)
	}
	return units
}

// probeOne asks one address for its status; nil when it is not a unit.
func (p *Prober) probeOne(ctx context.Context, addr, source string, timeout time.Duration) *Unit {
	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	status, err := p.Client.FetchStatus(probeCtx, addr)
	if err != nil {
		p.Log.Debug("probe miss", zap.String("address", addr), zap.Error(err))
		return nil
	}

	ip := status.WiFi.IPAddress
	if ip == "" {
		ip = addr
	}
	return &Unit{
		Name:         status.Name(),
		IP:           ip,
		Port:         device.DefaultPort,
		Firmware:     status.System.Build,
		Source:       source,
		DiscoveredAt: time.Now(),
	}
}

// peersOf re-reads a unit's status to collect the peer IPs it reports.
func (p *Prober) peersOf(ctx context.Context, u *Unit) []string {
	probeCtx, cancel := context.WithTimeout(ctx, p.Timeout*nodeChaseFactor)
	defer cancel()

	status, err := p.Client.FetchStatus(probeCtx, u.Address())
	if err != nil {
		return nil
	}
	peers := make([]string, 0, len(status.Nodes))
	for _, node := range status.Nodes {
		peers = append(peers, node.IP)
	}
	return peers
}

// expandRange turns an IPv4 address (optionally with a /24 suffix)
// into the list of host addresses of its /24 network.
func expandRange(iprange string) ([]string, error) {
	host := strings.TrimSuffix(iprange, "/24")

	ip := net.ParseIP(host)
	if ip == nil || ip.To4() == nil {
		return nil, fmt.Errorf("invalid IPv4 range %q", iprange)
	}

	v4 := ip.To4()
	base := fmt.Sprintf("%d.%d.%d", v4[0], v4[1], v4[2])

	addrs := make([]string, 0, 254)
	for last := 1; last <= 254; last++ {
		addrs = append(addrs, fmt.Sprintf("%s.%d", base, last))
	}
	return addrs, nil
}
