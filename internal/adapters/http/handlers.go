package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/shelterly/shelterly/internal/core/domain"
	"github.com/shelterly/shelterly/internal/core/usecases"
)

// ListSheltersHandler returns verified shelters for the public map,
// optionally ranked by distance from a query coordinate.
func ListSheltersHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		params := usecases.ListParams{
			UrgentOnly: c.QueryBool("urgent_only", false),
			Limit:      c.QueryInt("limit", 20),
			Offset:     c.QueryInt("offset", 0),
		}

		if params.Limit <= 0 || params.Limit > 100 {
			return errBadRequest(c, "limit must be between 1 and 100")
		}
		if params.Offset < 0 {
			return errBadRequest(c, "offset must be non-negative")
		}

		// lat and lon come as a pair or not at all.
		hasLat := c.Query("lat") != ""
		hasLon := c.Query("lon") != ""
		if hasLat != hasLon {
			return errBadRequest(c, "lat and lon must be provided together")
		}
		if hasLat {
			lat := c.QueryFloat("lat", 0)
			lon := c.QueryFloat("lon", 0)
			if lat < -90 || lat > 90 {
				return errBadRequest(c, "lat must be between -90 and 90")
			}
			if lon < -180 || lon > 180 {
				return errBadRequest(c, "lon must be between -180 and 180")
			}
			params.Coordinate = &domain.GeoPoint{Lat: lat, Lon: lon}
		}

		page, err := deps.Profiles.ListVerified(c.Context(), params)
		if err != nil {
			return errInternal(c, err.Error())
		}

		pg := Pagination{Offset: params.Offset, Limit: params.Limit, Total: page.Total}
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: page.Data, Pagination: pg})
	}
}

// GetShelterHandler returns the public detail view of a verified shelter.
func GetShelterHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return errBadRequest(c, "shelter id must be a valid UUID")
		}

		detail, err := deps.Profiles.GetByID(c.Context(), id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return errNotFound(c, "shelter not found")
			}
			return errInternal(c, err.Error())
		}
		return c.JSON(detail)
	}
}
