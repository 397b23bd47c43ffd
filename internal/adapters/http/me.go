package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/shelterly/shelterly/internal/core/domain"
	"github.com/shelterly/shelterly/internal/pkg/metrics"
)

const maxDocumentBytes = 5 * 1024 * 1024

var phoneRe = regexp.MustCompile(`^\+?[0-9\s\-()]+$`)

// allowedDocTypes lists the accepted verification document content types.
var allowedDocTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/jpg":       true,
	"image/png":       true,
}

// GetMeHandler returns the authenticated caller's full profile, including
// non-public fields like status and the verification document path.
func GetMeHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		profile, err := deps.Profiles.GetOwn(c.Context(), userID(c))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return errNotFound(c, "profile not found")
			}
			return errInternal(c, err.Error())
		}

		// Location is stored raw; expose the parsed coordinate.
		type ownProfile struct {
			domain.Profile
			Location domain.GeoPoint `json:"location"`
		}
		return c.JSON(ownProfile{Profile: *profile, Location: domain.ParseLocation(profile.Location)})
	}
}

// updateMeRequest keeps the nullable contact fields as raw JSON so an
// explicit null (clear the field) is distinguishable from an absent key.
type updateMeRequest struct {
	Name        *string         `json:"name"`
	City        *string         `json:"city"`
	Address     *string         `json:"address"`
	PhoneNumber json.RawMessage `json:"phone_number"`
	WebsiteURL  json.RawMessage `json:"website_url"`
}

// optionalString decodes a raw field into (value, clear): absent yields
// (nil, false), an explicit null yields (nil, true).
func optionalString(raw json.RawMessage) (*string, bool, error) {
	if raw == nil {
		return nil, false, nil
	}
	if string(raw) == "null" {
		return nil, true, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, false, err
	}
	return &s, false, nil
}

func validateProfileUpdate(upd domain.ProfileUpdate) string {
	if upd.Name != nil {
		if trimmed := strings.TrimSpace(*upd.Name); trimmed == "" || len(trimmed) > 255 {
			return "name must be 1-255 characters"
		}
	}
	if upd.City != nil && len(*upd.City) > 100 {
		return "city must be at most 100 characters"
	}
	if upd.Address != nil && len(*upd.Address) > 255 {
		return "address must be at most 255 characters"
	}
	if upd.PhoneNumber != nil && *upd.PhoneNumber != "" {
		if len(*upd.PhoneNumber) > 20 || !phoneRe.MatchString(*upd.PhoneNumber) {
			return "phone_number must be a valid phone number"
		}
	}
	if upd.WebsiteURL != nil && *upd.WebsiteURL != "" {
		if len(*upd.WebsiteURL) > 255 {
			return "website_url must be at most 255 characters"
		}
		u, err := url.Parse(*upd.WebsiteURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return "website_url must be a valid http(s) URL"
		}
	}
	return ""
}

// UpdateMeHandler applies a partial update to the caller's profile.
func UpdateMeHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req updateMeRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		upd := domain.ProfileUpdate{
			Name:    req.Name,
			City:    req.City,
			Address: req.Address,
		}
		var err error
		if upd.PhoneNumber, upd.ClearPhoneNumber, err = optionalString(req.PhoneNumber); err != nil {
			return errBadRequest(c, "phone_number must be a string or null")
		}
		if upd.WebsiteURL, upd.ClearWebsiteURL, err = optionalString(req.WebsiteURL); err != nil {
			return errBadRequest(c, "website_url must be a string or null")
		}
		if msg := validateProfileUpdate(upd); msg != "" {
			return errBadRequest(c, msg)
		}

		res, err := deps.Profiles.UpdateOwn(c.Context(), userID(c), upd)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrEmptyUpdate):
				return errBadRequest(c, "at least one field must be provided")
			case errors.Is(err, domain.ErrNotFound):
				return errNotFound(c, "profile not found")
			default:
				return errInternal(c, err.Error())
			}
		}
		return c.JSON(res)
	}
}

// UploadDocumentHandler accepts a multipart verification document and runs
// the two-phase upload (blob first, then profile metadata).
func UploadDocumentHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return errBadRequest(c, "multipart field 'file' is required")
		}
		if fh.Size > maxDocumentBytes {
			return errPayloadTooLarge(c, "document must be at most 5 MB")
		}

		contentType := fh.Header.Get("Content-Type")
		if !allowedDocTypes[contentType] {
			return errUnsupportedMedia(c, "document must be PDF, JPEG, or PNG")
		}

		f, err := fh.Open()
		if err != nil {
			return errInternal(c, err.Error())
		}
		defer f.Close()

		data, err := io.ReadAll(io.LimitReader(f, maxDocumentBytes+1))
		if err != nil {
			return errInternal(c, err.Error())
		}
		if len(data) > maxDocumentBytes {
			return errPayloadTooLarge(c, "document must be at most 5 MB")
		}

		// Strip any client-supplied directory components.
		filename := filepath.Base(fh.Filename)

		res, err := deps.Documents.Upload(c.Context(), userID(c), filename, contentType, data)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrUploadFailed):
				metrics.DocumentUploads.WithLabelValues("upload_failed").Inc()
				return errBadGateway(c, "document storage is unavailable")
			case errors.Is(err, domain.ErrPersistFailed):
				metrics.DocumentUploads.WithLabelValues("persist_failed").Inc()
				return errInternal(c, "could not record the uploaded document")
			default:
				metrics.DocumentUploads.WithLabelValues("error").Inc()
				return errInternal(c, err.Error())
			}
		}

		metrics.DocumentUploads.WithLabelValues("ok").Inc()
		return c.Status(fiber.StatusCreated).JSON(res)
	}
}

type geocodeRequest struct {
	Address string `json:"address"`
}

// GeocodeHandler resolves a free-text address to a coordinate for the
// authenticated caller.
func GeocodeHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req geocodeRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		addr := strings.TrimSpace(req.Address)
		if addr == "" || len(addr) > 500 {
			return errBadRequest(c, "address must be 1-500 characters")
		}

		res, err := deps.Geocode.Geocode(c.Context(), addr)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrAddressNotFound):
				return errNotFound(c, "no match for that address")
			case errors.Is(err, domain.ErrGeocodingUnavailable):
				return errBadGateway(c, "geocoding service is unavailable")
			default:
				return errInternal(c, err.Error())
			}
		}
		return c.JSON(res)
	}
}
