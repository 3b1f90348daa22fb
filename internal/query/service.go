// Package query turns tool style requests into upstream API calls: it
// validates parameters, applies activity filters, drives pagination and
// shapes the results.
package query

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"stravamcp/internal/logger"
	"stravamcp/internal/models"
)

// StravaAPI is the slice of the upstream client the orchestrator uses
type StravaAPI interface {
	ListActivities(ctx context.Context, page int, perPage int) ([]models.SummaryActivity, error)
	GetActivity(ctx context.Context, activityID int64) (models.DetailedActivity, error)
	GetActivityLaps(ctx context.Context, activityID int64) ([]models.Lap, error)
	GetActivityZones(ctx context.Context, activityID int64) ([]models.ActivityZone, error)

	GetAthlete(ctx context.Context) (models.Athlete, error)
	GetAthleteStats(ctx context.Context, athleteID int64) (models.AthleteStats, error)
	GetAthleteZones(ctx context.Context) (models.Zones, error)

	ListStarredSegments(ctx context.Context, page int, perPage int) ([]models.SummarySegment, error)
	GetSegment(ctx context.Context, segmentID int64) (models.DetailedSegment, error)
	ListSegmentEfforts(ctx context.Context, segmentID int64, page int, perPage int) ([]models.SegmentEffort, error)
	GetSegmentLeaderboard(ctx context.Context, segmentID int64, perPage int) (models.SegmentLeaderboard, error)

	ListRoutes(ctx context.Context, athleteID int64, page int, perPage int) ([]models.Route, error)
	GetRoute(ctx context.Context, routeID int64) (models.Route, error)
}

var validate = validator.New()

func init() {
	// Report on json tag names so errors match the wire field names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Service answers queries over one athlete's data. It is cheap to build, so
// multi user mode constructs one per request around a session bound client.
type Service struct {
	api    StravaAPI
	logger logger.Logger
}

func NewService(api StravaAPI, log logger.Logger) *Service {
	if log == nil {
		log = logger.NewNoOp()
	}
	return &Service{api: api, logger: log}
}

func validateParams(params any) error {
	if err := validate.Struct(params); err != nil {
		return fmt.Errorf("invalid query parameters: %w", err)
	}
	return nil
}
