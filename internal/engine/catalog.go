package engine

import (
	"strings"

	"backend/internal/models"
)

// DistinctCountries lists countries present under a continent ("all" for
// every continent), in first-seen order. Records without a country are skipped.
func DistinctCountries(records []models.SurveyRecord, continent string) []string {
	sel := models.FilterSelection{Continent: continent}
	return uniqueValues(records, func(rec models.SurveyRecord) []string {
		if !MatchesContinent(rec, sel) || !rec.Country.Usable() {
			return nil
		}
		return []string{rec.Country.Raw}
	})
}

// DistinctDevTypes lists every role tag across all records.
func DistinctDevTypes(records []models.SurveyRecord) []string {
	return uniqueValues(records, func(rec models.SurveyRecord) []string {
		return SplitMultiValue(rec.DevType)
	})
}

// DistinctContinents lists the continent tags assigned at load.
func DistinctContinents(records []models.SurveyRecord) []string {
	return uniqueValues(records, func(rec models.SurveyRecord) []string {
		if strings.TrimSpace(rec.Continent) == "" {
			return nil
		}
		return []string{rec.Continent}
	})
}

func uniqueValues(records []models.SurveyRecord, values func(models.SurveyRecord) []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0)
	for _, rec := range records {
		for _, v := range values(rec) {
			if seen[v] {
				continue
			}
			seen[v] = true
			result = append(result, v)
		}
	}
	return result
}
