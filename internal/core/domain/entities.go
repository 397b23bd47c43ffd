package domain

import (
	"time"
)

// ShelterStatus is the verification state of a shelter profile.
// Only verified shelters are exposed publicly.
type ShelterStatus string

const (
	StatusPending  ShelterStatus = "pending_verification"
	StatusVerified ShelterStatus = "verified"
	StatusRejected ShelterStatus = "rejected"
)

// Urgency is the ordered urgency level of a need.
type Urgency string

const (
	UrgencyLow      Urgency = "low"
	UrgencyMedium   Urgency = "medium"
	UrgencyHigh     Urgency = "high"
	UrgencyCritical Urgency = "critical"
)

// IsUrgent reports whether the level counts as urgent for ranking purposes.
func (u Urgency) IsUrgent() bool {
	return u == UrgencyHigh || u == UrgencyCritical
}

// Profile represents a shelter profile row. The profile table is owned by the
// external store; Location holds the raw geography value exactly as stored
// (WKT or GeoJSON) and is parsed on demand via ParseLocation.
type Profile struct {
	ID                  string        `json:"id"`
	Role                string        `json:"role"`
	Status              ShelterStatus `json:"status"`
	Name                string        `json:"name"`
	NIP                 string        `json:"nip,omitempty"`
	City                string        `json:"city"`
	Address             string        `json:"address,omitempty"`
	Location            any           `json:"-"`
	PhoneNumber         *string       `json:"phone_number"`
	WebsiteURL          *string       `json:"website_url"`
	VerificationDocPath *string       `json:"verification_doc_path"`
	AIUsageCount        int           `json:"ai_usage_count"`
	CreatedAt           time.Time     `json:"created_at"`
	UpdatedAt           *time.Time    `json:"updated_at"`
}

// Need represents a donation need linked to a shelter.
type Need struct {
	ID              string     `json:"id"`
	ShelterID       string     `json:"shelter_id"`
	Category        string     `json:"category"`
	Title           string     `json:"title"`
	Description     *string    `json:"description"`
	Urgency         Urgency    `json:"urgency"`
	TargetQuantity  float64    `json:"target_quantity"`
	CurrentQuantity float64    `json:"current_quantity"`
	Unit            string     `json:"unit"`
	IsFulfilled     bool       `json:"is_fulfilled"`
	CreatedAt       time.Time  `json:"created_at"`
	DeletedAt       *time.Time `json:"-"`
}

// ShelterView is the ranked list entry for the public shelter map.
// DistanceKm is set iff the query supplied a coordinate.
type ShelterView struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	City             string   `json:"city"`
	Location         GeoPoint `json:"location"`
	DistanceKm       *float64 `json:"distance_km,omitempty"`
	HasUrgentNeeds   bool     `json:"has_urgent_needs"`
	NeedsCount       int      `json:"needs_count"`
	UrgentNeedsCount int      `json:"urgent_needs_count"`
}

// NeedsSummary aggregates a shelter's non-deleted needs.
type NeedsSummary struct {
	Total     int `json:"total"`
	Urgent    int `json:"urgent"`
	Fulfilled int `json:"fulfilled"`
}

// ShelterDetail is the public detail view of a verified shelter.
type ShelterDetail struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	City         string       `json:"city"`
	Address      string       `json:"address"`
	Location     GeoPoint     `json:"location"`
	PhoneNumber  *string      `json:"phone_number"`
	WebsiteURL   *string      `json:"website_url"`
	CreatedAt    time.Time    `json:"created_at"`
	NeedsSummary NeedsSummary `json:"needs_summary"`
}

// ProfileUpdate carries the editable profile fields. A nil pointer means
// "leave as is"; the Clear flags null out the optional contact fields, so an
// explicit null in the request body is not lost on decode.
type ProfileUpdate struct {
	Name             *string `json:"name,omitempty"`
	City             *string `json:"city,omitempty"`
	Address          *string `json:"address,omitempty"`
	PhoneNumber      *string `json:"phone_number,omitempty"`
	ClearPhoneNumber bool    `json:"-"`
	WebsiteURL       *string `json:"website_url,omitempty"`
	ClearWebsiteURL  bool    `json:"-"`
}

// Empty reports whether the update changes nothing.
func (u ProfileUpdate) Empty() bool {
	return u.Name == nil && u.City == nil && u.Address == nil &&
		u.PhoneNumber == nil && !u.ClearPhoneNumber &&
		u.WebsiteURL == nil && !u.ClearWebsiteURL
}

// UpdateResult is returned after a profile update.
type UpdateResult struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	City      string    `json:"city"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UploadResult is returned after a verification document upload.
type UploadResult struct {
	VerificationDocPath string    `json:"verification_doc_path"`
	UploadedAt          time.Time `json:"uploaded_at"`
}

// GeocodeResult is the resolved coordinate for a free-text address.
type GeocodeResult struct {
	Location         GeoPoint `json:"location"`
	FormattedAddress string   `json:"formatted_address"`
}
