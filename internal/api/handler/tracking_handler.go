package handler

import (
	"bytes"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/MishraAmit1/freightsynq-sub002/internal/core/domain"
	"github.com/MishraAmit1/freightsynq-sub002/internal/core/ports"
)

const mimeMsgpack = "application/msgpack"

// TrackingHandler serves the vehicle tracking endpoints.
type TrackingHandler struct {
	service ports.TrackingService
	queue   ports.RefreshQueue
	now     func() time.Time
	log     zerolog.Logger
}

func NewTrackingHandler(service ports.TrackingService, queue ports.RefreshQueue, log zerolog.Logger) *TrackingHandler {
	return &TrackingHandler{service: service, queue: queue, now: time.Now, log: log}
}

// RefreshCrossings handles POST /v1/shipments/:id/tracking/crossings/refresh.
//
// @Summary      Fetch new toll crossings from the provider
// @Tags         tracking
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Shipment ID"
// @Success      200  {object}  crossingRefreshResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Failure      429  {object}  errorResponse
// @Router       /v1/shipments/{id}/tracking/crossings/refresh [post]
func (h *TrackingHandler) RefreshCrossings(c echo.Context) error {
	subject, _, err := ctxClaims(c)
	if err != nil {
		return err
	}
	id := c.Param("id")

	res, err := h.service.RefreshCrossings(c.Request().Context(), id)
	if err != nil {
		return err
	}

	h.log.Info().
		Str("shipment_id", id).
		Str("requested_by", subject).
		Str("source", string(res.Source)).
		Int("new_count", res.NewCount).
		Msg("crossings refreshed")

	return c.JSON(http.StatusOK, crossingRefreshResponse{
		ShipmentID:     id,
		Source:         res.Source,
		FallbackReason: res.FallbackReason,
		NewCount:       res.NewCount,
		Count:          len(res.Events),
		Events:         nonNil(res.Events),
	})
}

// ListCrossings handles GET /v1/shipments/:id/tracking/crossings.
//
// @Summary      Stored toll crossings, oldest first
// @Tags         tracking
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Shipment ID"
// @Success      200  {object}  crossingListResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/shipments/{id}/tracking/crossings [get]
func (h *TrackingHandler) ListCrossings(c echo.Context) error {
	if _, _, err := ctxClaims(c); err != nil {
		return err
	}
	id := c.Param("id")

	events, err := h.service.LoadCachedCrossings(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, crossingListResponse{ShipmentID: id, Count: len(events), Events: nonNil(events)})
}

// CrossingMap handles GET /v1/shipments/:id/tracking/crossings/map.
//
// @Summary      Clustered crossings, route polyline and viewport
// @Tags         tracking
// @Produce      json
// @Produce      application/msgpack
// @Security     BearerAuth
// @Param        id      path      string  true   "Shipment ID"
// @Param        format  query     string  false  "json (default) or msgpack"
// @Success      200     {object}  cluster.MapView
// @Failure      401     {object}  errorResponse
// @Router       /v1/shipments/{id}/tracking/crossings/map [get]
func (h *TrackingHandler) CrossingMap(c echo.Context) error {
	if _, _, err := ctxClaims(c); err != nil {
		return err
	}

	view, err := h.service.CrossingMap(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	if wantsMsgpack(c) {
		var buf bytes.Buffer
		enc := msgpack.NewEncoder(&buf)
		enc.SetCustomStructTag("json")
		if err := enc.Encode(view); err != nil {
			return err
		}
		return c.Blob(http.StatusOK, mimeMsgpack, buf.Bytes())
	}
	return c.JSON(http.StatusOK, view)
}

// RefreshPings handles POST /v1/shipments/:id/tracking/pings/refresh.
//
// @Summary      Fetch the current SIM location
// @Tags         tracking
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Shipment ID"
// @Success      200  {object}  pingRefreshResponse
// @Failure      401  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Failure      502  {object}  errorResponse
// @Router       /v1/shipments/{id}/tracking/pings/refresh [post]
func (h *TrackingHandler) RefreshPings(c echo.Context) error {
	if _, _, err := ctxClaims(c); err != nil {
		return err
	}
	id := c.Param("id")

	res, err := h.service.RefreshPing(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pingRefreshResponse{
		ShipmentID: id,
		Source:     res.Source,
		NewCount:   res.NewCount,
		Current:    res.Current,
		History:    nonNil(res.History),
	})
}

// ListPings handles GET /v1/shipments/:id/tracking/pings.
//
// @Summary      Recent SIM locations, most recent first
// @Tags         tracking
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Shipment ID"
// @Success      200  {object}  pingListResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/shipments/{id}/tracking/pings [get]
func (h *TrackingHandler) ListPings(c echo.Context) error {
	if _, _, err := ctxClaims(c); err != nil {
		return err
	}
	id := c.Param("id")

	pings, err := h.service.LoadCachedPings(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pingListResponse{ShipmentID: id, Count: len(pings), Pings: nonNil(pings)})
}

// EnableSim handles POST /v1/shipments/:id/tracking/sim.
// Returns 201 for a new registration and 200 when an active one is reused.
//
// @Summary      Enable cellular tracking for the driver SIM
// @Tags         tracking
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string            true  "Shipment ID"
// @Param        body  body      enableSimRequest  true  "Driver phone and number of days"
// @Success      200   {object}  registrationResponse
// @Success      201   {object}  registrationResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/shipments/{id}/tracking/sim [post]
func (h *TrackingHandler) EnableSim(c echo.Context) error {
	subject, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req enableSimRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	id := c.Param("id")
	res, err := h.service.EnableCellularTracking(c.Request().Context(), id, req.DriverPhone, req.Days)
	if err != nil {
		return err
	}

	status := http.StatusCreated
	if res.ReusedExisting {
		status = http.StatusOK
	} else {
		h.log.Info().Str("shipment_id", id).Str("requested_by", subject).Msg("sim registration created")
	}
	reg := res.Registration
	return c.JSON(status, registrationResponse{
		Registration:   reg,
		ReusedExisting: res.ReusedExisting,
		TotalCost:      reg.DailyCost.Multiply(reg.Days),
	})
}

// Status handles GET /v1/shipments/:id/tracking/status.
//
// @Summary      Tracking state, cooldown and usage for a shipment
// @Tags         tracking
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Shipment ID"
// @Success      200  {object}  statusResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/shipments/{id}/tracking/status [get]
func (h *TrackingHandler) Status(c echo.Context) error {
	if _, _, err := ctxClaims(c); err != nil {
		return err
	}

	view, err := h.service.TrackingStatus(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	resp := statusResponse{
		ShipmentID:          view.ShipmentID,
		TrackingEnabled:     view.Lifecycle.Enabled,
		DisabledReason:      view.Lifecycle.Reason,
		CooldownWaitSeconds: view.CooldownWaitSeconds,
		Registration:        view.Registration,
		Usage:               toUsageResponse(view.Usage),
	}
	resp.CanRefresh = view.Lifecycle.Enabled && view.CooldownWaitSeconds == 0 &&
		(view.Usage == nil || !view.Usage.Exhausted())
	if view.CooldownWaitSeconds > 0 {
		next := h.now().UTC().Add(time.Duration(view.CooldownWaitSeconds) * time.Second)
		resp.NextRefreshAt = &next
	}
	return c.JSON(http.StatusOK, resp)
}

// Usage handles GET /v1/tracking/usage.
//
// @Summary      Current month provider usage
// @Tags         tracking
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  usageResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/tracking/usage [get]
func (h *TrackingHandler) Usage(c echo.Context) error {
	if _, _, err := ctxClaims(c); err != nil {
		return err
	}

	usage, err := h.service.Usage(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUsageResponse(usage))
}

// BatchRefresh handles POST /v1/tracking/refresh/batch and returns 202.
// Jobs run on the sharded dispatcher; results are visible through the read endpoints.
//
// @Summary      Queue refreshes for many shipments
// @Tags         tracking
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      batchRefreshRequest  true  "Shipment IDs and refresh kind"
// @Success      202   {object}  batchAcceptedResponse
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/tracking/refresh/batch [post]
func (h *TrackingHandler) BatchRefresh(c echo.Context) error {
	subject, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req batchRefreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	kind := ports.RefreshCrossings
	if req.Kind == string(ports.RefreshPings) {
		kind = ports.RefreshPings
	}

	resp := batchAcceptedResponse{Message: "refresh jobs accepted"}
	seen := make(map[string]struct{}, len(req.ShipmentIDs))
	for _, id := range req.ShipmentIDs {
		id = strings.TrimSpace(id)
		if _, dup := seen[id]; dup || id == "" {
			continue
		}
		seen[id] = struct{}{}
		if h.queue.Enqueue(ports.RefreshJob{ShipmentID: id, Kind: kind}) {
			resp.Accepted++
		} else {
			resp.Dropped = append(resp.Dropped, id)
		}
	}

	h.log.Info().
		Str("requested_by", subject).
		Str("kind", string(kind)).
		Int("accepted", resp.Accepted).
		Int("dropped", len(resp.Dropped)).
		Msg("batch refresh queued")

	return c.JSON(http.StatusAccepted, resp)
}

func toUsageResponse(u *domain.UsagePeriod) *usageResponse {
	if u == nil {
		return nil
	}
	return &usageResponse{
		Period:            u.Period,
		CurrentMonthUsage: u.Calls,
		CurrentMonthCost:  u.Cost,
		MonthlyAPILimit:   u.CallLimit,
		Remaining:         u.Remaining(),
	}
}

func wantsMsgpack(c echo.Context) bool {
	if strings.EqualFold(c.QueryParam("format"), "msgpack") {
		return true
	}
	return strings.Contains(c.Request().Header.Get(echo.HeaderAccept), mimeMsgpack)
}

// nonNil keeps empty histories rendering as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
