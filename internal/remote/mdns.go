// ABOUTME: mDNS advertisement of the projector's remote endpoint
// ABOUTME: Advertises _soundprojector._tcp so control apps find the device
package remote

import (
	"fmt"
	"log"
	"net"

	"github.com/hashicorp/mdns"

	"github.com/Bwooce/soundprojector/internal/version"
)

const serviceType = "_soundprojector._tcp"

// advertise registers the mDNS service for the lifetime of the process.
func (s *Server) advertise() error {
	port, err := s.port()
	if err != nil {
		return err
	}

	ips, err := localIPs()
	if err != nil {
		return fmt.Errorf("failed to get local IPs: %w", err)
	}

	service, err := mdns.NewMDNSService(
		s.config.Name,
		serviceType,
		"",
		"",
		port,
		ips,
		[]string{"path=/projector", "version=" + version.Version},
	)
	if err != nil {
		return fmt.Errorf("failed to create mDNS service: %w", err)
	}

	if _, err := mdns.NewServer(&mdns.Config{Zone: service}); err != nil {
		return fmt.Errorf("failed to create mDNS server: %w", err)
	}

	log.Printf("Advertising %s as %q on port %d", serviceType, s.config.Name, port)

	return nil
}

// localIPs returns the non-loopback IPv4 addresses of up interfaces.
func localIPs() ([]net.IP, error) {
	var ips []net.IP

	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			if ipnet, ok := addr.(*net.IPNet); ok && !ipnet.IP.IsLoopback() {
				if ipnet.IP.To4() != nil {
					ips = append(ips, ipnet.IP)
				}
			}
		}
	}

	return ips, nil
}
