// Package component defines lifecycle-managed process resources and the
// registry that starts and stops them in order.
//
// # Interfaces
//
//   - Component: Name/Start/Stop/Health lifecycle
//   - Describable: one-line configuration summary logged at startup
package component
