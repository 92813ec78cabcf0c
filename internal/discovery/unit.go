package discovery

import (
	"fmt"
	"time"
)

// Unit is one ESPEasy device found on the network.
type Unit struct {
	// Name is the unit's configured name, or its IP when unnamed
	Name string

	// IP is the unit's IPv4 address
	IP string

	// Port is the unit's HTTP port (typically 80)
	Port int

	// Firmware is the build string the unit reported, if any
	Firmware string

	// Source records how the unit was found: "probe", "node" or "mdns"
	Source string

	// DiscoveredAt is when the unit was found
	DiscoveredAt time.Time
}

// String returns a human-readable one-liner for the unit
func (u *Unit) String() string {
	return fmt.Sprintf("%s at %s:%d (%s)", u.Name, u.IP, u.Port, u.Source)
}

// Address returns the unit's network address, including the port when
// it differs from the HTTP default.
func (u *Unit) Address() string {
	if u.Port != 0 && u.Port != 80 {
		return fmt.Sprintf("%s:%d", u.IP, u.Port)
	}
	return u.IP
}
