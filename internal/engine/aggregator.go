package engine

import (
	"sort"
	"strconv"

	"backend/internal/models"
)

type aggStats struct {
	Sum   float64
	Count int
}

// MeanQuery describes a grouped-mean compensation chart.
type MeanQuery struct {
	// Required fields must be usable or the record is skipped.
	Required []string
	// Filter is AND-ed after the required-field check. Nil keeps everything.
	Filter Predicate
	// Keys returns the group(s) a record falls into. A multi-valued answer
	// yields one key per entry.
	Keys func(rec models.SurveyRecord) []string
	// Less orders groups. Nil keeps first-seen order.
	Less func(a, b string) bool
	// Label renders a group key. Nil uses the key itself.
	Label func(key string) string
}

// FrequencyQuery describes a top-N popularity chart over a multi-valued field.
type FrequencyQuery struct {
	Required []string
	Filter   Predicate
	Field    string
	N        int
}

// GroupedMean averages reference-currency compensation per group in a
// single pass over records.
func GroupedMean(records []models.SurveyRecord, q MeanQuery) models.AggregationResult {
	keep := requireFields(q.Required...)
	if q.Filter != nil {
		keep = All(keep, q.Filter)
	}

	stats := make(map[string]*aggStats)
	order := make([]string, 0)

	for _, rec := range records {
		if !keep(rec) {
			continue
		}
		comp, ok := ReferenceCompensation(rec)
		if !ok {
			continue
		}
		for _, key := range distinct(q.Keys(rec)) {
			s, exists := stats[key]
			if !exists {
				s = &aggStats{}
				stats[key] = s
				order = append(order, key)
			}
			s.Sum += comp
			s.Count++
		}
	}

	if q.Less != nil {
		sort.SliceStable(order, func(i, j int) bool { return q.Less(order[i], order[j]) })
	}

	result := make(models.AggregationResult, 0, len(order))
	for _, key := range order {
		s := stats[key]
		label := key
		if q.Label != nil {
			label = q.Label(key)
		}
		result = append(result, models.Point{
			Label: label,
			Value: s.Sum / float64(s.Count),
			Count: s.Count,
		})
	}
	return result
}

// TopN counts entries of a multi-valued field and keeps the N most frequent.
// Ties keep first-seen order.
func TopN(records []models.SurveyRecord, q FrequencyQuery) models.AggregationResult {
	if q.N <= 0 || len(records) == 0 {
		return models.AggregationResult{}
	}
	keep := requireFields(append([]string{q.Field}, q.Required...)...)
	if q.Filter != nil {
		keep = All(keep, q.Filter)
	}

	counts := make(map[string]int)
	order := make([]string, 0)

	for _, rec := range records {
		if !keep(rec) {
			continue
		}
		for _, entry := range distinct(SplitMultiValue(rec.Get(q.Field))) {
			if _, exists := counts[entry]; !exists {
				order = append(order, entry)
			}
			counts[entry]++
		}
	}

	sort.SliceStable(order, func(i, j int) bool { return counts[order[i]] > counts[order[j]] })
	if len(order) > q.N {
		order = order[:q.N]
	}

	result := make(models.AggregationResult, 0, len(order))
	for _, entry := range order {
		result = append(result, models.Point{
			Label: entry,
			Value: float64(counts[entry]),
			Count: counts[entry],
		})
	}
	return result
}

// distinct drops repeated keys while keeping their order.
func distinct(keys []string) []string {
	if len(keys) < 2 {
		return keys
	}
	seen := make(map[string]bool, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}

// --- CHART PRESETS ---

// AverageCompensationByExperience groups by years of experience, ascending.
// Uses sel.Continent and sel.Country. Answers outside [0, 50] years are dropped.
func AverageCompensationByExperience(records []models.SurveyRecord, sel models.FilterSelection) models.AggregationResult {
	return GroupedMean(records, MeanQuery{
		Required: []string{models.FieldWorkExp, models.FieldCompTotal, models.FieldCurrency},
		Filter:   All(continentFilter(sel), countryFilter(sel)),
		Keys: func(rec models.SurveyRecord) []string {
			years := NormalizeExperience(rec.WorkExp)
			if years < 0 || years > maxExperienceAge {
				return nil
			}
			return []string{strconv.FormatFloat(years, 'f', -1, 64)}
		},
		Less:  numericLess,
		Label: func(key string) string { return key + " ans" },
	})
}

// AverageCompensationByEducation uses sel.Continent and sel.Country.
func AverageCompensationByEducation(records []models.SurveyRecord, sel models.FilterSelection) models.AggregationResult {
	return GroupedMean(records, MeanQuery{
		Required: []string{models.FieldEdLevel, models.FieldCompTotal, models.FieldCurrency},
		Filter:   All(continentFilter(sel), countryFilter(sel)),
		Keys: func(rec models.SurveyRecord) []string {
			return []string{rec.EdLevel.Raw}
		},
	})
}

// AverageCompensationByCloudPlatform uses sel.Continent, sel.Country and sel.Experience.
func AverageCompensationByCloudPlatform(records []models.SurveyRecord, sel models.FilterSelection) models.AggregationResult {
	return multiValueMean(records, sel, models.FieldPlatforms)
}

// AverageCompensationByWebFramework uses sel.Continent, sel.Country and sel.Experience.
func AverageCompensationByWebFramework(records []models.SurveyRecord, sel models.FilterSelection) models.AggregationResult {
	return multiValueMean(records, sel, models.FieldWebFrameworks)
}

func multiValueMean(records []models.SurveyRecord, sel models.FilterSelection, field string) models.AggregationResult {
	return GroupedMean(records, MeanQuery{
		Required: []string{field, models.FieldCompTotal, models.FieldCurrency, models.FieldWorkExp},
		Filter:   All(continentFilter(sel), countryFilter(sel), experienceFilter(sel.Experience)),
		Keys: func(rec models.SurveyRecord) []string {
			return SplitMultiValue(rec.Get(field))
		},
	})
}

// TopOperatingSystems uses sel.Continent and sel.DevType.
func TopOperatingSystems(records []models.SurveyRecord, sel models.FilterSelection, n int) models.AggregationResult {
	return topByRole(records, sel, models.FieldOpSys, n)
}

// TopCommunicationTools uses sel.Continent and sel.DevType.
func TopCommunicationTools(records []models.SurveyRecord, sel models.FilterSelection, n int) models.AggregationResult {
	return topByRole(records, sel, models.FieldCommunication, n)
}

func topByRole(records []models.SurveyRecord, sel models.FilterSelection, field string, n int) models.AggregationResult {
	return TopN(records, FrequencyQuery{
		Required: []string{models.FieldDevType},
		Filter:   All(continentFilter(sel), devTypeFilter(sel)),
		Field:    field,
		N:        n,
	})
}

func numericLess(a, b string) bool {
	x, _ := strconv.ParseFloat(a, 64)
	y, _ := strconv.ParseFloat(b, 64)
	return x < y
}
