package http

import (
	"github.com/nats-io/nats.go"

	"github.com/shelterly/shelterly/internal/adapters/postgres"
	"github.com/shelterly/shelterly/internal/adapters/valkey"
	"github.com/shelterly/shelterly/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Profiles  *usecases.ProfileService
	Documents *usecases.DocumentService
	Geocode   *usecases.GeocodeService
	NATS      *nats.Conn
	DB        *postgres.DB
	Cache     *valkey.Cache
	JWTSecret string
}
