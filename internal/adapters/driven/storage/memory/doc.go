// Package memory provides in-memory implementations of the driven storage
// ports. They back service and adapter tests and are never used by the
// scidata binary itself.
package memory
