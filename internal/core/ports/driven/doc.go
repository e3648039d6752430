// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Interfaces
//
//   - SourceAdapter: Requests pages from one repository and normalises its records
//   - AdapterRegistry: Looks up the adapter for a source
//   - IndexStore: Persists normalised records with a full-text index
//   - WriteLock: Serialises index writers across processes
//   - ConfigStore: Application configuration
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
