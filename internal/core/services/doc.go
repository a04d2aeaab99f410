// Package services implements the per-turn answering pipeline: entity
// extraction, web snippet retrieval, similarity-ranked answer synthesis,
// and the turn orchestrator that sequences them. Services depend only on
// driven ports and degrade to fixed fallback replies when a collaborator
// is unconfigured or faults.
package services
