//go:build !windows

package schema

// DefaultPublisherPath is the default location of the mosquitto_pub binary.
const DefaultPublisherPath = "/usr/bin/mosquitto_pub"

// PlatformName is used in the generated file banner.
const PlatformName = "Linux"
