package form

import (
	"eventdesk/model"
	"math"
	"slices"
	"sort"
	"time"
)

const maxSamples = 5

// Analyze summarizes submissions per field, following each field type's chart
// kind, plus totals by status and participant type.
func Analyze(form model.Form, submissions []model.FormSubmission) model.FormAnalytics {
	result := model.FormAnalytics{
		FormID:            form.ID,
		TotalSubmissions:  len(submissions),
		ByStatus:          map[model.SubmissionStatus]int{},
		ByParticipantType: map[string]int{},
		Fields:            []model.FieldAnalytics{},
	}

	latest := newestFirst(submissions)

	perDay := map[string]int{}
	var newest time.Time
	answered := 0

	for _, s := range submissions {
		result.ByStatus[s.Status]++

		participant := s.ParticipantType
		if participant == "" {
			participant = "unspecified"
		}
		result.ByParticipantType[participant]++

		if t, ok := model.ParseTime(s.CreatedAt); ok {
			perDay[t.Format(time.DateOnly)]++
			if t.After(newest) {
				newest = t
			}
		}

		for _, f := range form.Fields {
			if !isBlank(s.SubmissionData[f.FieldKey]) {
				answered++
			}
		}
	}

	if len(submissions) > 0 {
		result.CompletionRate = float64(result.ByStatus[model.SubmissionStatusCompleted]) / float64(len(submissions)) * 100
		result.AverageFieldsPerResponse = float64(answered) / float64(len(submissions))
	}
	if !newest.IsZero() {
		result.LatestSubmissionAt = newest.Format(time.RFC3339)
	}
	result.SubmissionsPerDay = dateCounts(perDay)

	for _, f := range Ordered(form.Fields) {
		result.Fields = append(result.Fields, analyzeField(f, latest))
	}

	return result
}

func analyzeField(f model.FormField, submissions []model.FormSubmission) model.FieldAnalytics {
	b, _ := BehaviorOf(f.FieldType)
	chart := b.Chart
	if chart == "" {
		chart = ChartNone
	}

	out := model.FieldAnalytics{
		FieldID:   f.ID,
		FieldKey:  f.FieldKey,
		Label:     f.Label,
		FieldType: f.FieldType,
		Chart:     string(chart),
	}

	answers := make([]any, 0, len(submissions))
	for _, s := range submissions {
		if v := s.SubmissionData[f.FieldKey]; !isBlank(v) {
			answers = append(answers, v)
		}
	}
	out.Responses = len(answers)

	switch chart {
	case ChartOptions:
		out.Options = optionCounts(f, answers)
	case ChartNumeric:
		out.Numeric = numericSummary(answers)
	case ChartTimeline:
		days := map[string]int{}
		for _, a := range answers {
			if t, ok := model.ParseTime(Stringify(a)); ok {
				days[t.Format(time.DateOnly)]++
			}
		}
		out.Dates = dateCounts(days)
	case ChartResponses:
		for _, a := range answers {
			if len(out.Samples) == maxSamples {
				break
			}
			out.Samples = append(out.Samples, Stringify(a))
		}
	}

	return out
}

// optionCounts lists the declared options in order, then answers outside the
// option set sorted by value.
func optionCounts(f model.FormField, answers []any) []model.OptionCount {
	counts := map[string]int{}
	for _, a := range answers {
		for _, v := range listOf(a) {
			counts[v]++
		}
	}

	out := make([]model.OptionCount, 0, len(f.Options))
	declared := map[string]struct{}{}
	for _, o := range f.Options {
		declared[o.Value] = struct{}{}
		out = append(out, model.OptionCount{Value: o.Value, Label: o.Label, Count: counts[o.Value]})
	}

	extra := make([]string, 0)
	for v := range counts {
		if _, ok := declared[v]; !ok {
			extra = append(extra, v)
		}
	}
	sort.Strings(extra)
	for _, v := range extra {
		out = append(out, model.OptionCount{Value: v, Label: v, Count: counts[v]})
	}

	return out
}

func numericSummary(answers []any) *model.NumericSummary {
	var summary model.NumericSummary
	n := 0
	for _, a := range answers {
		v := toNumber(a)
		if math.IsNaN(v) {
			continue
		}
		if n == 0 || v < summary.Min {
			summary.Min = v
		}
		if n == 0 || v > summary.Max {
			summary.Max = v
		}
		summary.Sum += v
		n++
	}
	if n == 0 {
		return nil
	}
	summary.Average = summary.Sum / float64(n)
	return &summary
}

func dateCounts(days map[string]int) []model.DateCount {
	out := make([]model.DateCount, 0, len(days))
	for d, c := range days {
		out = append(out, model.DateCount{Date: d, Count: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// newestFirst orders submissions by created_at descending. Submissions with
// unparseable timestamps sort last in their original order.
func newestFirst(submissions []model.FormSubmission) []model.FormSubmission {
	out := slices.Clone(submissions)
	sort.SliceStable(out, func(i, j int) bool {
		ti, okI := model.ParseTime(out[i].CreatedAt)
		tj, okJ := model.ParseTime(out[j].CreatedAt)
		if okI != okJ {
			return okI
		}
		return ti.After(tj)
	})
	return out
}
