package domain

// LifecycleState is Enabled, or Disabled with a user-displayable reason.
type LifecycleState struct {
	Enabled bool   `json:"enabled"`
	Reason  string `json:"reason,omitempty"`
}

const (
	ReasonNoActiveAssignment  = "no active assignment"
	ReasonTrackingPeriodEnded = "tracking period ended"
)

// EvaluateLifecycle decides whether tracking is permitted. Rules are checked in
// order and the first match wins, so a terminal booking status beats an
// assignment that is still open.
func EvaluateLifecycle(shipment *Shipment, assignment *VehicleAssignment) LifecycleState {
	if shipment != nil && shipment.Status.IsTerminal() {
		return LifecycleState{Reason: "booking " + shipment.Status.Label()}
	}
	if assignment == nil || assignment.Status != AssignmentActive {
		return LifecycleState{Reason: ReasonNoActiveAssignment}
	}
	if assignment.TrackingEndedAt != nil {
		return LifecycleState{Reason: ReasonTrackingPeriodEnded}
	}
	return LifecycleState{Enabled: true}
}
