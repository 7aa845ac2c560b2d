package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"
)

// Metrics publishes application metrics to CloudWatch. A nil client
// disables publication, so callers never need to branch on the flag.
type Metrics struct {
	namespace string
	client    *cloudwatch.Client
	logger    *zap.Logger
}

// NewMetrics creates a new metrics instance
func NewMetrics(namespace string, client *cloudwatch.Client, logger *zap.Logger) *Metrics {
	return &Metrics{
		namespace: namespace,
		client:    client,
		logger:    logger,
	}
}

// RecordHTTPRequest records count and latency for a handled request
func (m *Metrics) RecordHTTPRequest(ctx context.Context, route, method string, status int, duration time.Duration) {
	if m.client == nil {
		return
	}

	dimensions := []types.Dimension{
		{
			Name:  aws.String("Route"),
			Value: aws.String(route),
		},
		{
			Name:  aws.String("Method"),
			Value: aws.String(method),
		},
		{
			Name:  aws.String("Status"),
			Value: aws.String(strconv.Itoa(status)),
		},
	}

	m.put(ctx, []types.MetricDatum{
		{
			MetricName: aws.String("RequestLatency"),
			Dimensions: dimensions,
			Value:      aws.Float64(float64(duration.Milliseconds())),
			Unit:       types.StandardUnitMilliseconds,
			Timestamp:  aws.Time(time.Now()),
		},
		{
			MetricName: aws.String("RequestCount"),
			Dimensions: dimensions,
			Value:      aws.Float64(1),
			Unit:       types.StandardUnitCount,
			Timestamp:  aws.Time(time.Now()),
		},
	})
}

// RecordReminderDispatch records the outcome of a reminder dispatch attempt
func (m *Metrics) RecordReminderDispatch(ctx context.Context, sent bool) {
	if m.client == nil {
		return
	}

	outcome := "sent"
	if !sent {
		outcome = "skipped"
	}

	m.put(ctx, []types.MetricDatum{
		{
			MetricName: aws.String("ReminderDispatch"),
			Dimensions: []types.Dimension{
				{
					Name:  aws.String("Outcome"),
					Value: aws.String(outcome),
				},
			},
			Value:     aws.Float64(1),
			Unit:      types.StandardUnitCount,
			Timestamp: aws.Time(time.Now()),
		},
	})
}

// RecordError records error occurrences by type and code
func (m *Metrics) RecordError(ctx context.Context, errorType, errorCode string) {
	if m.client == nil {
		return
	}

	m.put(ctx, []types.MetricDatum{
		{
			MetricName: aws.String("Errors"),
			Dimensions: []types.Dimension{
				{
					Name:  aws.String("ErrorType"),
					Value: aws.String(errorType),
				},
				{
					Name:  aws.String("ErrorCode"),
					Value: aws.String(errorCode),
				},
			},
			Value:     aws.Float64(1),
			Unit:      types.StandardUnitCount,
			Timestamp: aws.Time(time.Now()),
		},
	})
}

// put sends metric data; a failed publish is logged, never surfaced.
func (m *Metrics) put(ctx context.Context, data []types.MetricDatum) {
	_, err := m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(m.namespace),
		MetricData: data,
	})
	if err != nil {
		m.logger.Warn("Failed to publish metrics",
			zap.Error(err),
			zap.String("namespace", m.namespace),
		)
	}
}
