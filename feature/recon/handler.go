package recon

import (
	"reconciler/core/logger"
	"reconciler/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for reconciliation.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the recon routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/recon")
	group.Get("/datasets", h.HandleListDatasets)
	group.Post("/profile", h.HandleProfile)
	group.Post("/strategy", h.HandleStrategy)
	group.Post("/reconcile", h.HandleReconcile)
}

type datasetPayload struct {
	Name    string           `json:"name"`
	Records []map[string]any `json:"records"`
}

type profileRequest = datasetPayload

type strategyRequest struct {
	Source datasetPayload `json:"source"`
	Target datasetPayload `json:"target"`
}

type reconcileRequest struct {
	Source datasetPayload   `json:"source"`
	Target datasetPayload   `json:"target"`
	Config reconcile.Config `json:"config"`
}

// reconcileResponse carries the run outcome with unmatched rows flattened to
// records.
type reconcileResponse struct {
	RunID           string               `json:"run_id"`
	Summary         reconcile.Summary    `json:"summary"`
	Mismatches      []reconcile.Mismatch `json:"mismatches"`
	UnmatchedSource []map[string]any     `json:"unmatched_source"`
	UnmatchedTarget []map[string]any     `json:"unmatched_target"`
}

// HandleListDatasets lists dataset objects available in storage.
func (h *Handler) HandleListDatasets(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	infos, err := h.service.ListDatasets(c.Context())
	if err != nil {
		l.Error("Dataset listing failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"datasets": infos})
}

// HandleProfile profiles a single dataset.
func (h *Handler) HandleProfile(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req profileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if len(req.Records) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "records must not be empty",
		})
	}
	if req.Name == "" {
		req.Name = "dataset"
	}

	dp, err := h.service.Profile(req.Records, req.Name)
	if err != nil {
		l.Error("Profiling failed", zap.String("dataset", req.Name), zap.Error(err))
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(dp)
}

// HandleStrategy recommends a reconciliation strategy for two datasets.
func (h *Handler) HandleStrategy(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req strategyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if len(req.Source.Records) == 0 || len(req.Target.Records) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "source and target records must not be empty",
		})
	}

	strategy, err := h.service.Strategy(req.Source.Records, req.Target.Records,
		nameOrDefault(req.Source.Name, "source"), nameOrDefault(req.Target.Name, "target"))
	if err != nil {
		l.Error("Strategy recommendation failed", zap.Error(err))
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(strategy)
}

// HandleReconcile runs a reconciliation and returns the full result.
func (h *Handler) HandleReconcile(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req reconcileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	req.Config.SourceName = nameOrDefault(req.Config.SourceName, nameOrDefault(req.Source.Name, "source"))
	req.Config.TargetName = nameOrDefault(req.Config.TargetName, nameOrDefault(req.Target.Name, "target"))

	result, err := h.service.Reconcile(req.Config, req.Source.Records, req.Target.Records)
	if err != nil {
		l.Error("Reconciliation failed", zap.Error(err))
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	mismatches := result.Mismatches
	if mismatches == nil {
		mismatches = []reconcile.Mismatch{}
	}
	return c.JSON(reconcileResponse{
		RunID:           result.RunID,
		Summary:         result.Summary,
		Mismatches:      mismatches,
		UnmatchedSource: result.UnmatchedSource.Records(),
		UnmatchedTarget: result.UnmatchedTarget.Records(),
	})
}

func nameOrDefault(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}
