package domain

import "time"

// ProviderCallOutcome classifies an external provider call for the audit log.
type ProviderCallOutcome string

const (
	OutcomeSuccess  ProviderCallOutcome = "success"
	OutcomeFallback ProviderCallOutcome = "fallback"
	OutcomeFailed   ProviderCallOutcome = "failed"
)

// ProviderCall is one audited call to a location provider. Informational only:
// the cost ledger is the authoritative counter.
type ProviderCall struct {
	ReferenceID string              `json:"reference_id" bson:"_id"`
	Provider    string              `json:"provider" bson:"provider"`
	ShipmentID  string              `json:"shipment_id" bson:"shipment_id"`
	Outcome     ProviderCallOutcome `json:"outcome" bson:"outcome"`
	Source      SourceKind          `json:"source,omitempty" bson:"source,omitempty"`
	Records     int                 `json:"records" bson:"records"`
	Cost        Money               `json:"cost" bson:"cost"`
	Error       string              `json:"error,omitempty" bson:"error,omitempty"`
	CalledAt    time.Time           `json:"called_at" bson:"called_at"`
	Duration    time.Duration       `json:"duration" bson:"duration"`
}
