package discovery

import (
	"context"
	"regexp"
	"time"

	"github.com/grandcat/zeroconf"
)

const (
	// ServiceType is the mDNS service type ESPEasy units advertise
	ServiceType = "_http._tcp"

	// ServiceDomain is the mDNS domain
	ServiceDomain = "local."

	// DefaultMDNSTimeout is the default browse window
	DefaultMDNSTimeout = 10 * time.Second
)

// espHostPattern matches ESPEasy mDNS hostnames (e.g. "ESP-Easy.local",
// "esp-kitchen.local").
var espHostPattern = regexp.MustCompile(`(?i)^esp[-_a-z0-9]*\.local\.?$`)

// MDNSScanner finds units via mDNS/DNS-SD browsing. It complements the
// HTTP sweep: units on networks that filter broadcast probes often
// still answer multicast DNS.
type MDNSScanner struct {
	// Timeout is the maximum time to browse for announcements
	Timeout time.Duration
}

// NewMDNSScanner creates a scanner with the default browse window.
func NewMDNSScanner() *MDNSScanner {
	return &MDNSScanner{Timeout: DefaultMDNSTimeout}
}

// Scan browses for ESPEasy units until the timeout elapses.
func (s *MDNSScanner) Scan(ctx context.Context) ([]*Unit, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, err
	}

	entries := make(chan *zeroconf.ServiceEntry)
	var units []*Unit

	done := make(chan struct{})
	go func() {
		defer close(done)
		for entry := range entries {
			if u := parseServiceEntry(entry); u != nil {
				units = append(units, u)
			}
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, err
	}

	<-ctx.Done()
	<-done
	return units, nil
}

// parseServiceEntry converts a zeroconf entry to a Unit, or nil when
// the entry is not an ESPEasy unit.
func parseServiceEntry(entry *zeroconf.ServiceEntry) *Unit {
	if entry.HostName == "" || !espHostPattern.MatchString(entry.HostName) {
		return nil
	}

	var ip string
	for _, addr := range entry.AddrIPv4 {
		ip = addr.String()
		break
	}
	if ip == "" && len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" {
		return nil
	}

	port := entry.Port
	if port == 0 {
		port = 80
	}

	name := entry.Instance
	if name == "" {
		name = ip
	}

	return &Unit{
		Name:         name,
		IP:           ip,
		Port:         port,
		Source:       "mdns",
		DiscoveredAt: time.Now(),
	}
}
