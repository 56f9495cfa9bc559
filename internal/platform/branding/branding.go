// Package branding centralizes product naming for UI surfaces.
package branding

// AppName is the user-facing product name.
const AppName = "Reckon.Space"
