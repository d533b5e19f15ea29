package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/chronidx/chronidx/internal/models"
	"github.com/chronidx/chronidx/internal/timeindex"
)

// QueryRange handles GET /v1/collections/:collection/query
func (h *Handler) QueryRange(c *fiber.Ctx) error {
	collection := c.Params("collection")

	repo, err := h.repo(collection)
	if err != nil {
		return badRequest(c, "INVALID_COLLECTION", err.Error())
	}

	var q models.RangeQuery
	if err := c.QueryParser(&q); err != nil {
		return badRequest(c, "INVALID_QUERY", "start_at and end_at must be Unix-second integers")
	}
	if err := q.Validate(); err != nil {
		return badRequest(c, "INVALID_QUERY", err.Error())
	}
	startAt, endAt := q.Range()

	selectors, err := repo.Selectors(startAt, endAt)
	if err != nil {
		if errors.Is(err, timeindex.ErrInvalidRange) {
			return badRequest(c, "INVALID_QUERY", err.Error())
		}
		h.logger.Error("Failed to resolve query selectors",
			"collection", collection,
			"error", err)
		return internalError(c, "Failed to resolve query range")
	}

	docs, err := repo.QueryRange(c.UserContext(), startAt, endAt)
	if err != nil {
		h.logger.Error("Failed to execute range query",
			"collection", collection,
			"error", err)
		return internalError(c, "Failed to execute query")
	}

	views := make([]models.DocumentResponse, 0, len(docs))
	for i := range docs {
		views = append(views, documentView(&docs[i]))
	}

	return c.JSON(models.QueryResponse{
		Collection: collection,
		StartAt:    startAt,
		EndAt:      endAt,
		Selectors:  selectors,
		Documents:  views,
		Count:      len(views),
	})
}

// Selectors handles GET /v1/collections/:collection/selectors. It resolves
// the range without touching the store, for query planning diagnostics.
func (h *Handler) Selectors(c *fiber.Ctx) error {
	collection := c.Params("collection")

	repo, err := h.repo(collection)
	if err != nil {
		return badRequest(c, "INVALID_COLLECTION", err.Error())
	}

	var q models.RangeQuery
	if err := c.QueryParser(&q); err != nil {
		return badRequest(c, "INVALID_QUERY", "start_at and end_at must be Unix-second integers")
	}
	if err := q.Validate(); err != nil {
		return badRequest(c, "INVALID_QUERY", err.Error())
	}
	startAt, endAt := q.Range()

	var selectors []string
	if raw := c.Query("group_select"); raw != "" {
		groupSelect, perr := strconv.ParseBool(raw)
		if perr != nil {
			return badRequest(c, "INVALID_QUERY", "group_select must be a boolean")
		}
		selectors, err = repo.SelectorsWithGrouping(startAt, endAt, groupSelect)
	} else {
		selectors, err = repo.Selectors(startAt, endAt)
	}
	if err != nil {
		if errors.Is(err, timeindex.ErrInvalidRange) {
			return badRequest(c, "INVALID_QUERY", err.Error())
		}
		return internalError(c, "Failed to resolve selectors")
	}

	return c.JSON(models.SelectorsResponse{
		Collection: collection,
		StartAt:    startAt,
		EndAt:      endAt,
		Selectors:  selectors,
		Count:      len(selectors),
	})
}

// Indices handles GET /v1/collections/:collection/indices
func (h *Handler) Indices(c *fiber.Ctx) error {
	collection := c.Params("collection")

	repo, err := h.repo(collection)
	if err != nil {
		return badRequest(c, "INVALID_COLLECTION", err.Error())
	}

	names, err := repo.Indices(c.UserContext())
	if err != nil {
		h.logger.Error("Failed to list indices",
			"collection", collection,
			"error", err)
		return internalError(c, "Failed to list indices")
	}
	if names == nil {
		names = []string{}
	}

	return c.JSON(models.IndicesResponse{
		Collection: collection,
		Indices:    names,
		Count:      len(names),
	})
}
