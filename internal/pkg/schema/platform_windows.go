//go:build windows

package schema

// DefaultPublisherPath is the default location of the mosquitto_pub binary.
const DefaultPublisherPath = `C:\Programme\mosquitto\mosquitto_pub.exe`

// PlatformName is used in the generated file banner.
const PlatformName = "Windows"
