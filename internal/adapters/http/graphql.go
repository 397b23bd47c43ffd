package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/shelterly/shelterly/internal/core/domain"
	"github.com/shelterly/shelterly/internal/core/usecases"
)

// buildSchema creates the read-only GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lon": &graphql.Field{Type: graphql.Float},
		},
	})

	needsSummaryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "NeedsSummary",
		Fields: graphql.Fields{
			"total":     &graphql.Field{Type: graphql.Int},
			"urgent":    &graphql.Field{Type: graphql.Int},
			"fulfilled": &graphql.Field{Type: graphql.Int},
		},
	})

	shelterType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Shelter",
		Fields: graphql.Fields{
			"id":                 &graphql.Field{Type: graphql.String},
			"name":               &graphql.Field{Type: graphql.String},
			"city":               &graphql.Field{Type: graphql.String},
			"location":           &graphql.Field{Type: geoPointType},
			"distance_km":        &graphql.Field{Type: graphql.Float},
			"has_urgent_needs":   &graphql.Field{Type: graphql.Boolean},
			"needs_count":        &graphql.Field{Type: graphql.Int},
			"urgent_needs_count": &graphql.Field{Type: graphql.Int},
		},
	})

	shelterDetailType := graphql.NewObject(graphql.ObjectConfig{
		Name: "ShelterDetail",
		Fields: graphql.Fields{
			"id":            &graphql.Field{Type: graphql.String},
			"name":          &graphql.Field{Type: graphql.String},
			"city":          &graphql.Field{Type: graphql.String},
			"address":       &graphql.Field{Type: graphql.String},
			"location":      &graphql.Field{Type: geoPointType},
			"phone_number":  &graphql.Field{Type: graphql.String},
			"website_url":   &graphql.Field{Type: graphql.String},
			"needs_summary": &graphql.Field{Type: needsSummaryType},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"shelters": &graphql.Field{
				Type:        graphql.NewList(shelterType),
				Description: "List verified shelters, optionally ranked by distance",
				Args: graphql.FieldConfigArgument{
					"lat":         &graphql.ArgumentConfig{Type: graphql.Float},
					"lon":         &graphql.ArgumentConfig{Type: graphql.Float},
					"urgent_only": &graphql.ArgumentConfig{Type: graphql.Boolean, DefaultValue: false},
					"limit":       &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 20},
					"offset":      &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					params := usecases.ListParams{
						UrgentOnly: p.Args["urgent_only"].(bool),
						Limit:      p.Args["limit"].(int),
						Offset:     p.Args["offset"].(int),
					}
					lat, hasLat := p.Args["lat"].(float64)
					lon, hasLon := p.Args["lon"].(float64)
					if hasLat && hasLon {
						params.Coordinate = &domain.GeoPoint{Lat: lat, Lon: lon}
					}
					page, err := deps.Profiles.ListVerified(p.Context, params)
					if err != nil {
						return nil, err
					}
					return page.Data, nil
				},
			},
			"shelter": &graphql.Field{
				Type:        shelterDetailType,
				Description: "Get a verified shelter by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id := p.Args["id"].(string)
					return deps.Profiles.GetByID(p.Context, id)
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.Context(),
		})

		return c.JSON(result)
	}
}
