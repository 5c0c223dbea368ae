package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/routemap/internal/core/domain"
)

// buildSchema creates the GraphQL schema wired to the visualization service.
// Field names follow the JSON names of the domain types, which the default
// resolver reads through their struct tags.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	airlineType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Airline",
		Fields: graphql.Fields{
			"airline_id":   &graphql.Field{Type: graphql.String},
			"airline_name": &graphql.Field{Type: graphql.String},
			"count":        &graphql.Field{Type: graphql.Int},
		},
	})

	airportType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Airport",
		Fields: graphql.Fields{
			"airport_id": &graphql.Field{Type: graphql.String},
			"airport":    &graphql.Field{Type: graphql.String},
			"city":       &graphql.Field{Type: graphql.String},
			"country":    &graphql.Field{Type: graphql.String},
			"latitude": &graphql.Field{
				Type:    graphql.Float,
				Resolve: airportCoord(func(a domain.AirportAggregate) float64 { return a.Latitude }),
			},
			"longitude": &graphql.Field{
				Type:    graphql.Float,
				Resolve: airportCoord(func(a domain.AirportAggregate) float64 { return a.Longitude }),
			},
			"count": &graphql.Field{Type: graphql.Int},
		},
	})

	routeLineType := graphql.NewObject(graphql.ObjectConfig{
		Name: "RouteLine",
		Fields: graphql.Fields{
			"id":         &graphql.Field{Type: graphql.String},
			"airline_id": &graphql.Field{Type: graphql.String},
			"x1":         &graphql.Field{Type: graphql.Float},
			"y1":         &graphql.Field{Type: graphql.Float},
			"x2":         &graphql.Field{Type: graphql.Float},
			"y2":         &graphql.Field{Type: graphql.Float},
		},
	})

	datasetType := graphql.NewObject(graphql.ObjectConfig{
		Name: "DatasetStatus",
		Fields: graphql.Fields{
			"version":        &graphql.Field{Type: graphql.String},
			"routes":         &graphql.Field{Type: graphql.Int},
			"airlines":       &graphql.Field{Type: graphql.Int},
			"airports":       &graphql.Field{Type: graphql.Int},
			"countries":      &graphql.Field{Type: graphql.Int},
			"malformed_rows": &graphql.Field{Type: graphql.Int},
			"loaded_at": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					s := p.Source.(*domain.DatasetStatus)
					return s.LoadedAt.UTC().Format("2006-01-02T15:04:05Z"), nil
				},
			},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"airlines": &graphql.Field{
				Type: graphql.NewList(airlineType),
				Args: graphql.FieldConfigArgument{
					"limit": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					airlines, err := deps.Viz.Airlines()
					if err != nil {
						return nil, err
					}
					if limit, _ := p.Args["limit"].(int); limit > 0 && limit < len(airlines) {
						airlines = airlines[:limit]
					}
					return airlines, nil
				},
			},
			"airline": &graphql.Field{
				Type: airlineType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(string)
					return deps.Viz.Airline(id)
				},
			},
			"airports": &graphql.Field{
				Type: graphql.NewList(airportType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Viz.Airports()
				},
			},
			"nearbyAirports": &graphql.Field{
				Type: graphql.NewList(airportType),
				Args: graphql.FieldConfigArgument{
					"lat": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lon": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"k":   &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 10},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					lat, _ := p.Args["lat"].(float64)
					lon, _ := p.Args["lon"].(float64)
					k, _ := p.Args["k"].(int)
					return deps.Viz.NearbyAirports(domain.GeoPoint{Lat: lat, Lon: lon}, k)
				},
			},
			"routeLines": &graphql.Field{
				Type: graphql.NewList(routeLineType),
				Args: graphql.FieldConfigArgument{
					"airline": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["airline"].(string)
					return deps.Viz.RouteLines(p.Context, id)
				},
			},
			"dataset": &graphql.Field{
				Type: datasetType,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Viz.Status()
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: queryType})
}

// airportCoord resolves a coordinate of an airport source, or null when the
// dataset cell did not parse.
func airportCoord(get func(domain.AirportAggregate) float64) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		var a domain.AirportAggregate
		switch src := p.Source.(type) {
		case domain.AirportAggregate:
			a = src
		case *domain.AirportAggregate:
			a = *src
		default:
			return nil, nil
		}
		if v := domain.Coord(get(a)).Finite(); v != nil {
			return *v, nil
		}
		return nil, nil
	}
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
			return errBadRequest(c, "invalid request body")
		}
		if req.Query == "" {
			return errBadRequest(c, "query is required")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}
