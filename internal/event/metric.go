package event

import "time"

// Metric is an immutable measurement record (spec section 3).
type Metric struct {
	Time   time.Time
	Type   string
	Source string
	Name   string
	Value  float64
	Unit   string
	Tags   map[string]string
}

// NewMetric constructs a Metric stamped with the current time.
func NewMetric(metricType, source, name string, value float64, unit string, tags map[string]string) Metric {
	return Metric{
		Time:   nowFunc(),
		Type:   metricType,
		Source: source,
		Name:   name,
		Value:  value,
		Unit:   unit,
		Tags:   tags,
	}
}

// AsPayload renders the metric as a plain mapping, suitable for wrapping in
// an Event destined for the metrics queue.
func (m Metric) AsPayload() map[string]any {
	return map[string]any{
		"time":   m.Time.Unix(),
		"type":   m.Type,
		"source": m.Source,
		"name":   m.Name,
		"value":  m.Value,
		"unit":   m.Unit,
		"tags":   m.Tags,
	}
}
