// ABOUTME: Version constants for the sound projector
// ABOUTME: Reported in logs, mDNS advertisements and remote status messages
package version

const (
	// Version is the software version
	Version = "0.3.0"

	// Product is the product name
	Product = "Sound Projector"

	// Manufacturer is who built this
	Manufacturer = "Bwooce"
)
