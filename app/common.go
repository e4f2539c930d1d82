package app

import (
	"context"
	"errors"
	"time"

	"lostfound/domain"
	"lostfound/pkg/events"
	"lostfound/pkg/httperror"
	"lostfound/pkg/identity"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const serviceName = "lostfound"

var timeNow = time.Now

var requestValidator = validator.New(validator.WithRequiredStructEnabled())

func validateRequest(op string, req any) error {
	if err := requestValidator.Struct(req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			return httperror.BadRequest(
				op+".validation_failed",
				"Validation failed for the request",
				ve.Error(),
			)
		}

		return httperror.InternalServerError(
			op+".validation_error",
			"An unexpected validation error occurred",
			nil,
		)
	}

	return nil
}

func viewerFrom(ctx context.Context, op string) (domain.Viewer, error) {
	viewer, ok := identity.FromContext(ctx)
	if !ok {
		return domain.Viewer{}, httperror.Unauthorized(op+".unauthorized", "Viewer identity is missing", nil)
	}
	return viewer, nil
}

func requireAdmin(viewer domain.Viewer, op string) error {
	if !viewer.IsAdmin() {
		return httperror.Forbidden(op+".forbidden", "Only administrators can do this", nil)
	}
	return nil
}

// storeError maps item store failures onto HTTP errors.
func storeError(op string, err error) error {
	switch {
	case domain.IsValidation(err):
		return httperror.BadRequest(
			op+".validation_failed",
			"Validation failed for the request",
			fiber.Map{"field": domain.ValidationField(err), "error": err.Error()},
		)
	case domain.IsNotFound(err):
		return httperror.NotFound(op+".not_found", "Item not found", nil)
	default:
		return httperror.InternalServerError(op+".failed", "Item store failed", nil)
	}
}

// visibleItem loads an item and hides it as not found when the viewer may
// not see it.
func visibleItem(ctx context.Context, repository Repository, viewer domain.Viewer, id, op string) (domain.Item, error) {
	item, err := repository.GetItem(ctx, id)
	if err != nil {
		return domain.Item{}, storeError(op, err)
	}
	if !domain.CanView(viewer.Role, item) {
		return domain.Item{}, httperror.NotFound(op+".not_found", "Item not found", nil)
	}
	return item, nil
}

// publishItemEvent is best effort: a broker failure is logged and never
// fails the request.
func publishItemEvent(ctx context.Context, publisher events.Publisher, name, itemID string, payload any) {
	if publisher == nil {
		return
	}

	headers := events.NewHeaders(serviceName)
	event := events.NewEvent(name, events.EventVersionV1, payload, headers)

	if err := publisher.Publish(ctx, events.ItemExchange, event, headers); err != nil {
		zap.L().Error("Failed to publish "+name+" event",
			zap.String("itemId", itemID),
			zap.Error(err),
		)
	}
}

type pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
}

const maxPageSize = 100

// paginate clamps the requested page and returns the slice bounds for it.
func paginate(total, page, pageSize int) (pagination, int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	pageSize = min(pageSize, maxPageSize)

	totalPages := total / pageSize
	if total%pageSize != 0 {
		totalPages++
	}

	start := total
	if page <= totalPages {
		start = (page - 1) * pageSize
	}
	end := start + min(pageSize, total-start)

	return pagination{
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: totalPages,
	}, start, end
}
