package engine

import (
	"strings"

	"backend/internal/models"
)

// Predicate decides whether a record takes part in a query.
type Predicate func(rec models.SurveyRecord) bool

// All AND-combines predicates.
func All(preds ...Predicate) Predicate {
	return func(rec models.SurveyRecord) bool {
		for _, p := range preds {
			if !p(rec) {
				return false
			}
		}
		return true
	}
}

// MatchesContinent compares against the lower-case continent stamped at load.
func MatchesContinent(rec models.SurveyRecord, sel models.FilterSelection) bool {
	return sel.Continent == models.AllContinents || rec.Continent == sel.Continent
}

func MatchesCountry(rec models.SurveyRecord, sel models.FilterSelection) bool {
	if sel.Country == models.AllCountries {
		return true
	}
	return rec.Country.Present && rec.Country.Raw == sel.Country
}

// MatchesExperienceBucket checks years against an inclusive range.
func MatchesExperienceBucket(years float64, bucket models.ExperienceBucket) bool {
	switch bucket {
	case models.Experience0To5:
		return years >= 0 && years <= 5
	case models.Experience6To10:
		return years >= 6 && years <= 10
	case models.Experience11To15:
		return years >= 11 && years <= 15
	case models.Experience16To20:
		return years >= 16 && years <= 20
	case models.Experience21Plus:
		return years >= 21
	default:
		return true
	}
}

// MatchesDevType is a substring check on the raw role list, so "Developer"
// matches "Developer, back-end".
func MatchesDevType(rec models.SurveyRecord, sel models.FilterSelection) bool {
	if sel.DevType == models.AllDevTypes {
		return true
	}
	return strings.Contains(rec.DevType.Raw, sel.DevType)
}

// ParseExperienceBucket maps selector text to a bucket; anything unknown is "all".
func ParseExperienceBucket(s string) models.ExperienceBucket {
	switch b := models.ExperienceBucket(strings.TrimSpace(s)); b {
	case models.Experience0To5, models.Experience6To10, models.Experience11To15,
		models.Experience16To20, models.Experience21Plus:
		return b
	default:
		return models.ExperienceAll
	}
}

func continentFilter(sel models.FilterSelection) Predicate {
	return func(rec models.SurveyRecord) bool { return MatchesContinent(rec, sel) }
}

func countryFilter(sel models.FilterSelection) Predicate {
	return func(rec models.SurveyRecord) bool { return MatchesCountry(rec, sel) }
}

func devTypeFilter(sel models.FilterSelection) Predicate {
	return func(rec models.SurveyRecord) bool { return MatchesDevType(rec, sel) }
}

func experienceFilter(bucket models.ExperienceBucket) Predicate {
	return func(rec models.SurveyRecord) bool {
		return MatchesExperienceBucket(NormalizeExperience(rec.WorkExp), bucket)
	}
}

// requireFields keeps records whose named fields are all usable.
func requireFields(names ...string) Predicate {
	return func(rec models.SurveyRecord) bool {
		for _, n := range names {
			if !rec.Get(n).Usable() {
				return false
			}
		}
		return true
	}
}
