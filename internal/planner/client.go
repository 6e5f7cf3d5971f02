// Package planner is a client for the OpenTripPlanner Transmodel (v3) GraphQL API.
// It issues a single trip search and maps the response into domain.TripPattern values.
// The client never retries; callers own timeouts through the context and the
// injected *http.Client.
package planner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkordes/transit-logbook/internal/domain"
)

// tripQuery requests exactly the fields the logbook needs from each pattern.
const tripQuery = `
query trip($from: Location!, $to: Location!, $dateTime: DateTime, $numTripPatterns: Int) {
  trip(from: $from, to: $to, dateTime: $dateTime, numTripPatterns: $numTripPatterns) {
    tripPatterns {
      aimedStartTime
      aimedEndTime
      duration
      distance
      legs {
        mode
        aimedStartTime
        aimedEndTime
        distance
        duration
        fromPlace { name }
        toPlace { name }
        line { publicCode name }
        pointsOnLink { points }
      }
    }
  }
}`

// maxErrorBody caps how much of a failed response is copied into the error.
const maxErrorBody = 512

// PlanRequest is the input to a single trip search.
type PlanRequest struct {
	From            domain.Coordinate
	To              domain.Coordinate
	DateTime        time.Time
	NumTripPatterns int
}

// Client talks to one OTP Transmodel endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// New constructs a Client posting to endpoint, e.g.
// "http://localhost:8080/otp/transmodel/v3". A nil httpClient uses
// http.DefaultClient.
func New(endpoint string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		endpoint:   strings.TrimSuffix(endpoint, "/"),
		httpClient: httpClient,
	}
}

// Plan asks the planner for trip patterns between two coordinates.
// Patterns are returned in the planner's own ranking order.
// Every failure is reported as domain.ErrPlanningService wrapping the cause.
func (c *Client) Plan(ctx context.Context, req PlanRequest) ([]domain.TripPattern, error) {
	body, err := json.Marshal(graphQLRequest{
		Query: tripQuery,
		Variables: tripVariables{
			From:            location{Coordinates: coordinates{Latitude: req.From.Lat, Longitude: req.From.Lon}},
			To:              location{Coordinates: coordinates{Latitude: req.To.Lat, Longitude: req.To.Lon}},
			DateTime:        req.DateTime.Format(time.RFC3339),
			NumTripPatterns: req.NumTripPatterns,
		},
	})
	if err != nil {
		return nil, planningError("encode request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, planningError("build request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, planningError("send request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, planningError("response", fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet))))
	}

	var out graphQLResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, planningError("decode response", err)
	}
	if len(out.Errors) > 0 {
		msgs := make([]string, 0, len(out.Errors))
		for _, e := range out.Errors {
			msgs = append(msgs, e.Message)
		}
		return nil, planningError("graphql", fmt.Errorf("%s", strings.Join(msgs, "; ")))
	}

	if out.Data.Trip == nil || out.Data.Trip.TripPatterns == nil {
		return []domain.TripPattern{}, nil
	}
	return out.Data.Trip.TripPatterns, nil
}

func planningError(step string, err error) error {
	return fmt.Errorf("planner.Client.Plan: %s: %w: %w", step, domain.ErrPlanningService, err)
}

// --- wire types -------------------------------------------------------------

type graphQLRequest struct {
	Query     string        `json:"query"`
	Variables tripVariables `json:"variables"`
}

type tripVariables struct {
	From            location `json:"from"`
	To              location `json:"to"`
	DateTime        string   `json:"dateTime"`
	NumTripPatterns int      `json:"numTripPatterns"`
}

type location struct {
	Coordinates coordinates `json:"coordinates"`
}

type coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// graphQLResponse decodes tripPatterns straight into domain types: their JSON
// tags mirror the Transmodel field names.
type graphQLResponse struct {
	Data struct {
		Trip *struct {
			TripPatterns []domain.TripPattern `json:"tripPatterns"`
		} `json:"trip"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}
