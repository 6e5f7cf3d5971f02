package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/pkordes/transit-logbook/internal/domain"
)

// validate is shared by every service; validator.Validate caches struct
// metadata and is safe for concurrent use.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their wire name so messages match what the caller sent.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := fld.Tag.Get("name"); name != "" {
			return name
		}
		return fld.Name
	})
	return v
}

// TripQuery is the rider's search input: two coordinates and a departure time.
// Coordinates are pointers so a missing value can be told apart from 0.
// DateTime accepts RFC 3339 with or without an offset; values without an
// offset are read in the service's operating time zone.
type TripQuery struct {
	StartLat *float64 `name:"start_lat" validate:"required,latitude"`
	StartLon *float64 `name:"start_lon" validate:"required,longitude"`
	EndLat   *float64 `name:"end_lat" validate:"required,latitude"`
	EndLon   *float64 `name:"end_lon" validate:"required,longitude"`
	DateTime string   `name:"datetime" validate:"required"`
}

// parsedQuery is a TripQuery after validation.
type parsedQuery struct {
	From domain.Coordinate
	To   domain.Coordinate
	At   time.Time
}

// dateTimeLayouts are tried in order; the first two carry an offset.
var dateTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// parse validates q and converts it into typed values.
// Returns domain.ErrValidation describing the first problem found.
func (q TripQuery) parse(loc *time.Location) (parsedQuery, error) {
	if err := validate.Struct(q); err != nil {
		return parsedQuery{}, validationError(err)
	}
	at, err := parseDateTime(q.DateTime, loc)
	if err != nil {
		return parsedQuery{}, fmt.Errorf("%w: datetime: %v", domain.ErrValidation, err)
	}
	return parsedQuery{
		From: domain.Coordinate{Lat: *q.StartLat, Lon: *q.StartLon},
		To:   domain.Coordinate{Lat: *q.EndLat, Lon: *q.EndLon},
		At:   at,
	}, nil
}

func parseDateTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%q is not an ISO 8601 date-time", s)
}

// validationError converts validator output into a domain.ErrValidation that
// names the offending fields.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" is required")
		case "latitude":
			msgs = append(msgs, fe.Field()+" must be between -90 and 90")
		case "longitude":
			msgs = append(msgs, fe.Field()+" must be between -180 and 180")
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return fmt.Errorf("%w: %s", domain.ErrValidation, strings.Join(msgs, "; "))
}
