package discovery

import (
	"net"
	"testing"

	"github.com/grandcat/zeroconf"
)

func entry(instance, hostname string, port int, v4 ...string) *zeroconf.ServiceEntry {
	e := &zeroconf.ServiceEntry{
		ServiceRecord: zeroconf.ServiceRecord{Instance: instance},
		HostName:      hostname,
		Port:          port,
	}
	for _, a := range v4 {
		e.AddrIPv4 = append(e.AddrIPv4, net.ParseIP(a))
	}
	return e
}

// TestParseServiceEntry tests filtering mDNS answers down to units
func TestParseServiceEntry(t *testing.T) {
	tests := []struct {
		name     string
		entry    *zeroconf.ServiceEntry
		wantNil  bool
		wantName string
		wantIP   string
		wantPort int
	}{
		{
			name:     "espeasy default hostname",
			entry:    entry("ESP-Easy", "ESP-Easy.local.", 80, "192.168.1.40"),
			wantName: "ESP-Easy",
			wantIP:   "192.168.1.40",
			wantPort: 80,
		},
		{
			name:     "named unit with custom port",
			entry:    entry("kitchen", "esp-kitchen.local", 8080, "192.168.1.41"),
			wantName: "kitchen",
			wantIP:   "192.168.1.41",
			wantPort: 8080,
		},
		{
			name:     "missing instance falls back to ip",
			entry:    entry("", "esp_12f9a1.local.", 80, "192.168.1.42"),
			wantName: "192.168.1.42",
			wantIP:   "192.168.1.42",
			wantPort: 80,
		},
		{
			name:     "zero port defaults to 80",
			entry:    entry("kitchen", "esp-kitchen.local.", 0, "192.168.1.43"),
			wantName: "kitchen",
			wantIP:   "192.168.1.43",
			wantPort: 80,
		},
		{
			name:    "non-esp host ignored",
			entry:   entry("printer", "printer.local.", 80, "192.168.1.50"),
			wantNil: true,
		},
		{
			name:    "empty hostname ignored",
			entry:   entry("mystery", "", 80, "192.168.1.51"),
			wantNil: true,
		},
		{
			name:    "no addresses ignored",
			entry:   entry("kitchen", "esp-kitchen.local.", 80),
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := parseServiceEntry(tt.entry)
			if tt.wantNil {
				if u != nil {
					t.Fatalf("parseServiceEntry() = %v, want nil", u)
				}
				return
			}
			if u == nil {
				t.Fatal("parseServiceEntry() = nil, want unit")
			}
			if u.Name != tt.wantName || u.IP != tt.wantIP || u.Port != tt.wantPort {
				t.Errorf("unit = %s/%s:%d, want %s/%s:%d",
					u.Name, u.IP, u.Port, tt.wantName, tt.wantIP, tt.wantPort)
			}
			if u.Source != "mdns" {
				t.Errorf("Source = %q, want mdns", u.Source)
			}
		})
	}
}

// TestEspHostPattern tests the hostname filter
func TestEspHostPattern(t *testing.T) {
	tests := []struct {
		host string
		want bool
	}{
		{"ESP-Easy.local.", true},
		{"esp_12f9a1.local", true},
		{"ESP32-demo.local.", true},
		{"printer.local.", false},
		{"myesp.local.", false},
	}

	for _, tt := range tests {
		if got := espHostPattern.MatchString(tt.host); got != tt.want {
			t.Errorf("match(%q) = %v, want %v", tt.host, got, tt.want)
		}
	}
}
