package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.uber.org/zap"

	"covidapi/internal/record"
)

// ── Query layer ────────────────────────────────────────────
// Read-only aggregation operations over the record store. Every
// operation is stateless, side-effect free and independently
// retryable. Failures are returned as errors, never folded into an
// empty result.

// ErrUnknownMetric is returned when a metric name is not in the catalog.
var ErrUnknownMetric = errors.New("unknown metric")

// RecordStore is the slice of the store the query layer reads through.
type RecordStore interface {
	Aggregate(ctx context.Context, pipeline mongo.Pipeline, out any) error
	Distinct(ctx context.Context, field string) ([]string, error)
}

// DataPoint is one value of a single metric on a single day.
type DataPoint struct {
	Value float64   `bson:"metric_value" json:"metric_value"`
	Date  time.Time `bson:"date" json:"date"`
}

// CountryMetric is one metric value for one country-day, with enough
// identity to plot per-country.
type CountryMetric struct {
	Value    float64   `bson:"metric_value" json:"metric_value"`
	IsoCode  string    `bson:"iso_code" json:"iso_code"`
	Date     time.Time `bson:"date" json:"date"`
	Location string    `bson:"location" json:"location"`
}

// Country is a distinct location/iso_code pair present in the store.
type Country struct {
	Location string `bson:"location" json:"location"`
	IsoCode  string `bson:"iso_code" json:"iso_code"`
}

// Service answers aggregation queries against an injected record store.
type Service struct {
	store  RecordStore
	logger *zap.SugaredLogger
}

// NewService creates a query Service.
func NewService(store RecordStore, logger *zap.SugaredLogger) *Service {
	return &Service{store: store, logger: logger}
}

// GetDataPoints returns the values of one metric for one country within
// an inclusive date range, in store-native order. Zero matches yield an
// empty slice, not an error. The metric must be a raw catalog field
// name; alias resolution belongs to the caller (see ResolveMetricAlias).
func (s *Service) GetDataPoints(ctx context.Context, metric string, start, end time.Time, isoCode string) ([]DataPoint, error) {
	if !record.IsMetric(metric) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMetric, metric)
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{
			{Key: "iso_code", Value: isoCode},
			{Key: "date", Value: bson.D{
				{Key: "$gte", Value: start},
				{Key: "$lte", Value: end},
			}},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "metric_value", Value: "$" + metric},
			{Key: "date", Value: 1},
		}}},
	}

	var points []DataPoint
	if err := s.store.Aggregate(ctx, pipeline, &points); err != nil {
		return nil, fmt.Errorf("get data points: %w", err)
	}
	s.logger.Debugw("getDataPoints", "metric", metric, "isoCode", isoCode, "found", len(points))
	return points, nil
}

// GetNewDeaths returns the summed new_deaths for one country over an
// inclusive date range. No matching rows yields 0.
func (s *Service) GetNewDeaths(ctx context.Context, start, end time.Time, isoCode string) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{
			{Key: "iso_code", Value: isoCode},
			{Key: "date", Value: bson.D{
				{Key: "$gte", Value: start},
				{Key: "$lte", Value: end},
			}},
		}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$iso_code"},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$new_deaths"}}},
		}}},
	}

	var totals []struct {
		Total float64 `bson:"total"`
	}
	if err := s.store.Aggregate(ctx, pipeline, &totals); err != nil {
		return 0, fmt.Errorf("get new deaths: %w", err)
	}
	if len(totals) == 0 {
		return 0, nil
	}
	return totals[0].Total, nil
}

// GetOneMetricPerCountry returns one metric's value for every record at
// or after the given instant truncated to UTC midnight. The result is
// deliberately NOT reduced to a single latest row per country: all rows
// past the cutoff come back, and any "latest" selection is the caller's.
func (s *Service) GetOneMetricPerCountry(ctx context.Context, metric string, at time.Time) ([]CountryMetric, error) {
	if !record.IsMetric(metric) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMetric, metric)
	}

	cutoff := at.UTC().Truncate(24 * time.Hour)

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{
			{Key: "date", Value: bson.D{{Key: "$gte", Value: cutoff}}},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "metric_value", Value: "$" + metric},
			{Key: "iso_code", Value: 1},
			{Key: "date", Value: 1},
			{Key: "location", Value: 1},
		}}},
	}

	var metrics []CountryMetric
	if err := s.store.Aggregate(ctx, pipeline, &metrics); err != nil {
		return nil, fmt.Errorf("get one metric per country: %w", err)
	}
	s.logger.Debugw("getOneMetricPerCountry", "metric", metric, "cutoff", cutoff, "found", len(metrics))
	return metrics, nil
}

// GetAllCountryData returns the distinct location/iso_code pairs in the
// store, sorted ascending by location name.
func (s *Service) GetAllCountryData(ctx context.Context) ([]Country, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{
				{Key: "location", Value: "$location"},
				{Key: "iso_code", Value: "$iso_code"},
			}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id.location", Value: 1}}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "location", Value: "$_id.location"},
			{Key: "iso_code", Value: "$_id.iso_code"},
		}}},
	}

	var countries []Country
	if err := s.store.Aggregate(ctx, pipeline, &countries); err != nil {
		return nil, fmt.Errorf("get country data: %w", err)
	}
	return countries, nil
}

// GetAllContinents returns every distinct continent value in the store.
// Aggregate-region rows have an empty continent, so the empty string is
// a legitimate entry.
func (s *Service) GetAllContinents(ctx context.Context) ([]string, error) {
	continents, err := s.store.Distinct(ctx, "continent")
	if err != nil {
		return nil, fmt.Errorf("get continents: %w", err)
	}
	return continents, nil
}

// GetAllMetricNames returns the static metric catalog. It never touches
// the store.
func (s *Service) GetAllMetricNames() []string {
	return record.MetricNames()
}
