// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - Catalog reload on file change, YAML config, JSON snapshot export
// 0.2.0 - Distance LOD policy, background haze, animated focus transitions
// 0.1.0 - Initial release: catalog loader, galactic transform, orbital render program
