// Package model defines the domain models for glowtrack.
package model

// Database keys and key prefixes.
const (
	KeyPreferences = "prefs:notifications"
	KeyPermission  = "platform:permission"
	PrefixDelivery = "delivery:"
)
