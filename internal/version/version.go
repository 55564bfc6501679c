// ABOUTME: Version information for the module player
// ABOUTME: Product identity printed by -version and at startup
package version

const (
	// Version is the release version
	Version = "0.1.0"

	// Product is the player binary name
	Product = "openmpt-play"
)

// String returns the product and version, e.g. "openmpt-play 0.1.0"
func String() string {
	return Product + " " + Version
}
