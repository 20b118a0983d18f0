package engine

import "backend/internal/models"

// newRecord builds a record from field name / value pairs.
func newRecord(continent string, kv ...string) models.SurveyRecord {
	r := models.SurveyRecord{Continent: continent, MultiValue: map[string]models.Field{}}
	for i := 0; i+1 < len(kv); i += 2 {
		f := models.Text(kv[i+1])
		switch kv[i] {
		case models.FieldCountry:
			r.Country = f
		case models.FieldWorkExp:
			r.WorkExp = f
		case models.FieldCompTotal:
			r.CompTotal = f
		case models.FieldCurrency:
			r.Currency = f
		case models.FieldEdLevel:
			r.EdLevel = f
		case models.FieldDevType:
			r.DevType = f
		default:
			r.MultiValue[kv[i]] = f
		}
	}
	return r
}

func salaried(continent, country, exp, comp, currency string, extra ...string) models.SurveyRecord {
	kv := append([]string{
		models.FieldCountry, country,
		models.FieldWorkExp, exp,
		models.FieldCompTotal, comp,
		models.FieldCurrency, currency,
	}, extra...)
	return newRecord(continent, kv...)
}

func labels(res models.AggregationResult) []string {
	out := make([]string, 0, len(res))
	for _, p := range res {
		out = append(out, p.Label)
	}
	return out
}

func counts(res models.AggregationResult) []int {
	out := make([]int, 0, len(res))
	for _, p := range res {
		out = append(out, p.Count)
	}
	return out
}
