// Package domain defines the core business types for the awareness portal.
//
// Types in this package are pure value objects with no behavior, no database
// dependencies, and no HTTP concerns. They are the shared language between
// the repositories, services, and API layers.
package domain
