package telemetry

import (
	"math"

	"github.com/j-veylop/uranus/internal/models"
)

// RecentLimit is the number of records in Snapshot.Recent.
const RecentLimit = 20

// Filter restricts the by-model rollup. Empty fields match everything.
type Filter struct {
	ModelLabel string
	ModelType  models.ModelType
}

func (f Filter) match(r models.InferenceOutcome) bool {
	if f.ModelLabel != "" && r.ModelLabel != f.ModelLabel {
		return false
	}
	if f.ModelType != "" && r.ModelType != f.ModelType {
		return false
	}
	return true
}

// rollup accumulates the statistics shared by every grouping.
type rollup struct {
	count     int
	successes int
	tokens    int
	cost      float64
	latency   int64
}

func (r *rollup) add(o models.InferenceOutcome) {
	r.count++
	if o.Success {
		r.successes++
	}
	r.tokens += o.Usage.TotalTokens
	r.cost += o.Usage.EstimatedCostUSD
	r.latency += o.LatencyMs
}

func (r *rollup) meanLatency() int64 {
	if r.count == 0 {
		return 0
	}
	return int64(math.Round(float64(r.latency) / float64(r.count)))
}

// Aggregate computes the dashboard snapshot over records. The filter only
// narrows ByModel; totals, input types and recent history always cover every
// record.
func Aggregate(records []models.TelemetryRecord, f Filter) models.Snapshot {
	snap := models.Snapshot{
		ByModel:     ByModel(records, f),
		ByInputType: ByInputType(records),
		Recent:      Recent(records, RecentLimit),
	}

	for _, rec := range records {
		snap.TotalRequests++
		if rec.Result.Success {
			snap.SuccessfulRequests++
		} else {
			snap.FailedRequests++
		}
		snap.Usage.Add(rec.Result.Usage)
	}

	return snap
}

// ByModel groups records by model id in first-seen order.
func ByModel(records []models.TelemetryRecord, f Filter) []models.ModelRollup {
	index := make(map[string]int)
	groups := make([]rollup, 0)
	out := make([]models.ModelRollup, 0)

	for _, rec := range records {
		res := rec.Result
		if !f.match(res) {
			continue
		}
		i, ok := index[res.ModelID]
		if !ok {
			i = len(out)
			index[res.ModelID] = i
			out = append(out, models.ModelRollup{
				ModelID:    res.ModelID,
				ModelLabel: res.ModelLabel,
				ModelType:  res.ModelType,
			})
			groups = append(groups, rollup{})
		}
		groups[i].add(res)
	}

	for i, g := range groups {
		out[i].Count = g.count
		out[i].SuccessCount = g.successes
		out[i].TotalTokens = g.tokens
		out[i].EstimatedCostUSD = g.cost
		out[i].AverageLatencyMs = g.meanLatency()
	}
	return out
}

// ByInputType groups records by input type in first-seen order.
func ByInputType(records []models.TelemetryRecord) []models.InputTypeRollup {
	index := make(map[models.InputType]int)
	groups := make([]rollup, 0)
	out := make([]models.InputTypeRollup, 0)

	for _, rec := range records {
		kind := rec.Input.Type
		i, ok := index[kind]
		if !ok {
			i = len(out)
			index[kind] = i
			out = append(out, models.InputTypeRollup{
				InputType:      kind,
				InputTypeLabel: kind.Label(),
			})
			groups = append(groups, rollup{})
		}
		groups[i].add(rec.Result)
	}

	for i, g := range groups {
		out[i].Count = g.count
		out[i].SuccessCount = g.successes
		out[i].TotalTokens = g.tokens
		out[i].EstimatedCostUSD = g.cost
		out[i].AverageLatencyMs = g.meanLatency()
	}
	return out
}

// Recent returns up to n records in reverse insertion order.
func Recent(records []models.TelemetryRecord, n int) []models.TelemetryRecord {
	if n > len(records) {
		n = len(records)
	}
	if n < 0 {
		n = 0
	}
	out := make([]models.TelemetryRecord, 0, n)
	for i := len(records) - 1; i >= len(records)-n; i-- {
		out = append(out, records[i])
	}
	return out
}
