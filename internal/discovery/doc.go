// Package discovery finds ESPEasy units on the local network.
//
// Two mechanisms are combined:
//
//   - An HTTP sweep (Prober) probes every address of an IPv4 /24 for
//     the ESPEasy /json status endpoint, then chases the peer lists
//     units report about each other. This is the authoritative source
//     for unit names and firmware builds.
//   - An mDNS browse (MDNSScanner) listens for DNS-SD announcements
//     from units whose networks filter direct probes.
//
// Results feed the unit name registry (see the registry package) so
// configuration tables can refer to units by name.
package discovery
