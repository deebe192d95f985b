package handler

import (
	"time"

	"github.com/MishraAmit1/freightsynq-sub002/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error       string `json:"error"`
	Code        string `json:"code"`
	WaitSeconds *int64 `json:"wait_seconds,omitempty"`
}

// --- Request types ---

type enableSimRequest struct {
	DriverPhone string `json:"driver_phone" validate:"required"`
	Days        int    `json:"days"         validate:"required,gte=1"`
}

type batchRefreshRequest struct {
	ShipmentIDs []string `json:"shipment_ids" validate:"required,min=1,max=500,dive,required"`
	Kind        string   `json:"kind"         validate:"omitempty,oneof=crossings pings"`
}

// --- Response types ---

type crossingRefreshResponse struct {
	ShipmentID     string                 `json:"shipment_id"`
	Source         domain.SourceKind      `json:"source"`
	FallbackReason string                 `json:"fallback_reason,omitempty"`
	NewCount       int                    `json:"new_count"`
	Count          int                    `json:"count"`
	Events         []domain.CrossingEvent `json:"events"`
}

type crossingListResponse struct {
	ShipmentID string                 `json:"shipment_id"`
	Count      int                    `json:"count"`
	Events     []domain.CrossingEvent `json:"events"`
}

type pingRefreshResponse struct {
	ShipmentID string             `json:"shipment_id"`
	Source     domain.SourceKind  `json:"source"`
	NewCount   int                `json:"new_count"`
	Current    *domain.PingEvent  `json:"current"`
	History    []domain.PingEvent `json:"history"`
}

type pingListResponse struct {
	ShipmentID string             `json:"shipment_id"`
	Count      int                `json:"count"`
	Pings      []domain.PingEvent `json:"pings"`
}

type registrationResponse struct {
	Registration   *domain.SimRegistration `json:"registration"`
	ReusedExisting bool                    `json:"reused_existing"`
	TotalCost      domain.Money            `json:"total_cost"`
}

type usageResponse struct {
	Period            string       `json:"period"`
	CurrentMonthUsage int64        `json:"current_month_usage"`
	CurrentMonthCost  domain.Money `json:"current_month_cost"`
	MonthlyAPILimit   int64        `json:"monthly_api_limit"`
	Remaining         int64        `json:"remaining"`
}

type statusResponse struct {
	ShipmentID          string                  `json:"shipment_id"`
	TrackingEnabled     bool                    `json:"tracking_enabled"`
	DisabledReason      string                  `json:"disabled_reason,omitempty"`
	CanRefresh          bool                    `json:"can_refresh"`
	CooldownWaitSeconds int64                   `json:"cooldown_wait_seconds"`
	NextRefreshAt       *time.Time              `json:"next_refresh_at,omitempty"`
	Registration        *domain.SimRegistration `json:"registration,omitempty"`
	Usage               *usageResponse          `json:"usage,omitempty"`
}

type batchAcceptedResponse struct {
	Message  string   `json:"message"`
	Accepted int      `json:"accepted"`
	Dropped  []string `json:"dropped,omitempty"`
}
