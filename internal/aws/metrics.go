package aws

import (
	"context"
	"fmt"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// MetricsRecorder pushes counters to CloudWatch under a fixed namespace.
type MetricsRecorder struct {
	client     CloudWatchAPI
	namespace  string
	dimensions []cwtypes.Dimension
	nowFunc    func() time.Time
}

// NewMetricsRecorder returns a recorder publishing into namespace. Each dimension pair is
// attached to every datum (e.g. "Stage" -> "prod").
func NewMetricsRecorder(client CloudWatchAPI, namespace string, dimensions map[string]string) *MetricsRecorder {
	dims := make([]cwtypes.Dimension, 0, len(dimensions))
	for k, v := range dimensions {
		dims = append(dims, cwtypes.Dimension{Name: sdkaws.String(k), Value: sdkaws.String(v)})
	}
	return &MetricsRecorder{
		client:     client,
		namespace:  namespace,
		dimensions: dims,
		nowFunc:    time.Now,
	}
}

// Count records n occurrences of the named event.
func (r *MetricsRecorder) Count(ctx context.Context, name string, n int) error {
	ts := r.nowFunc()
	input := &cloudwatch.PutMetricDataInput{
		Namespace: sdkaws.String(r.namespace),
		MetricData: []cwtypes.MetricDatum{
			{
				MetricName: sdkaws.String(name),
				Unit:       cwtypes.StandardUnitCount,
				Value:      sdkaws.Float64(float64(n)),
				Timestamp:  &ts,
				Dimensions: r.dimensions,
			},
		},
	}
	if _, err := r.client.PutMetricData(ctx, input); err != nil {
		return fmt.Errorf("put metric data %s: %w", name, err)
	}
	return nil
}
