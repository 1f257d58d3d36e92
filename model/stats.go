package model

import "encoding/json"

// StatsBody is the telemetry submission payload.
type StatsBody struct {
	Events []StatsEvent `json:"EventInfo"`
}

// StatsEvent is a single telemetry measurement.
type StatsEvent struct {
	MeasurementGroup string            `json:"MeasurementGroup"`
	Event            string            `json:"Event"`
	Values           map[string]int64  `json:"Values"`
	Dimensions       map[string]string `json:"Dimensions"`
}

// NewStatsEvent builds an event with its own copies of values and dimensions.
func NewStatsEvent(group, event string, values map[string]int64, dimensions map[string]string) StatsEvent {
	v := make(map[string]int64, len(values))
	for k, x := range values {
		v[k] = x
	}
	d := make(map[string]string, len(dimensions))
	for k, x := range dimensions {
		d[k] = x
	}
	return StatsEvent{MeasurementGroup: group, Event: event, Values: v, Dimensions: d}
}

// NewStatsBody wraps events into a payload.
func NewStatsBody(events ...StatsEvent) StatsBody {
	return StatsBody{Events: append([]StatsEvent{}, events...)}
}

func (b StatsBody) MarshalJSON() ([]byte, error) {
	events := b.Events
	if events == nil {
		events = []StatsEvent{}
	}
	return json.Marshal(struct {
		Events []StatsEvent `json:"EventInfo"`
	}{events})
}

func (b *StatsBody) UnmarshalJSON(data []byte) error {
	var in struct {
		Events []StatsEvent `json:"EventInfo"`
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	b.Events = in.Events
	if b.Events == nil {
		b.Events = []StatsEvent{}
	}
	return nil
}

func (e StatsEvent) MarshalJSON() ([]byte, error) {
	type plain StatsEvent
	out := plain(e)
	if out.Values == nil {
		out.Values = map[string]int64{}
	}
	if out.Dimensions == nil {
		out.Dimensions = map[string]string{}
	}
	return json.Marshal(out)
}
