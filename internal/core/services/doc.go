// Package services implements the driving port interfaces.
// Services contain the core business logic: the ingestion pipeline,
// ranking, summary caching, and change watching. They orchestrate
// calls to driven ports (adapters).
//
// Services are pure Go with no CGO or external dependencies.
package services
