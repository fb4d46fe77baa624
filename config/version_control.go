package config

// Version system:
// vMAJOR.MINOR.PATCH

// Centralized version control
const (
	// Executible
	Main_version = "v1.1.0"

	// Modular tools
	Benchmark    = "v1.0.0"
	Filter       = "v1.1.0"
	Barcode      = "v1.0.0"
	Clean        = "v1.0.0"
	Sanity_check = "v1.0.1"
)
