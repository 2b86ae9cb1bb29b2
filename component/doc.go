// Package component defines the lifecycle contract shared by speechkit's
// long-lived parts (HTTP server, storage, inference providers) and a
// registry that starts them in order and stops them in reverse.
package component
