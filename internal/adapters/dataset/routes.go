package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/samirrijal/routemap/internal/core/domain"
)

// CSVRouteSource implements ports.RouteSource over a routes CSV file.
type CSVRouteSource struct {
	location string
	client   *http.Client
}

// NewCSVRouteSource creates a route source reading location, a path or URL.
func NewCSVRouteSource(location string, client *http.Client) *CSVRouteSource {
	if client == nil {
		client = DefaultClient
	}
	return &CSVRouteSource{location: location, client: client}
}

// Location returns the path or URL being read.
func (s *CSVRouteSource) Location() string { return s.location }

// Routes fetches and parses the whole table.
func (s *CSVRouteSource) Routes(ctx context.Context) ([]domain.Route, error) {
	rc, err := open(ctx, s.client, s.location)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return ParseRoutes(rc)
}

var requiredColumns = []string{"ID", "AirlineID"}

// ParseRoutes reads a routes table with a header row. Fields are addressed
// by column name. Coordinates that are not numbers become NaN; the row is
// kept.
func ParseRoutes(r io.Reader) ([]domain.Route, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("routes table is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := indexColumns(header)
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			return nil, fmt.Errorf("routes table has no %q column", c)
		}
	}

	var routes []domain.Route
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(routes)+2, err)
		}
		routes = append(routes, domain.Route{
			ID:              getField(record, cols, "ID"),
			AirlineID:       getField(record, cols, "AirlineID"),
			AirlineName:     getField(record, cols, "AirlineName"),
			SourceAirportID: getField(record, cols, "SourceAirportID"),
			SourceAirport:   getField(record, cols, "SourceAirport"),
			SourceCity:      getField(record, cols, "SourceCity"),
			SourceCountry:   getField(record, cols, "SourceCountry"),
			SourceLatitude:  parseCoord(getField(record, cols, "SourceLatitude")),
			SourceLongitude: parseCoord(getField(record, cols, "SourceLongitude")),
			DestAirportID:   getField(record, cols, "DestAirportID"),
			DestAirport:     getField(record, cols, "DestAirport"),
			DestCity:        getField(record, cols, "DestCity"),
			DestCountry:     getField(record, cols, "DestCountry"),
			DestLatitude:    parseCoord(getField(record, cols, "DestLatitude")),
			DestLongitude:   parseCoord(getField(record, cols, "DestLongitude")),
		})
	}
	return routes, nil
}

func parseCoord(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func indexColumns(header []string) map[string]int {
	m := make(map[string]int, len(header))
	for i, col := range header {
		// Strip BOM from first column
		col = strings.TrimPrefix(col, "\xef\xbb\xbf")
		m[strings.TrimSpace(col)] = i
	}
	return m
}

func getField(record []string, cols map[string]int, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}
