// Package bootstrap runs the speechkit application lifecycle: typed config,
// component start in registration order, configure callbacks, a startup
// summary, signal handling and reverse-order graceful shutdown.
package bootstrap
