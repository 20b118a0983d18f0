package models

import (
	"bytes"
	"strconv"

	"github.com/goccy/go-json"
)

// Raw survey field names as they appear in the source JSON.
const (
	FieldCountry       = "Country"
	FieldWorkExp       = "WorkExp"
	FieldCompTotal     = "CompTotal"
	FieldCurrency      = "Currency"
	FieldEdLevel       = "EdLevel"
	FieldDevType       = "DevType"
	FieldPlatforms     = "PlatformHaveWorkedWith"
	FieldWebFrameworks = "WebframeHaveWorkedWith"
	FieldOpSys         = "OpSysProfessionaluse"
	FieldCommunication = "OfficeStackSyncHaveWorkedWith"
	NotAvailable       = "NA"
)

// MultiValueFields lists the semicolon-delimited fields kept on every record.
var MultiValueFields = []string{FieldPlatforms, FieldWebFrameworks, FieldOpSys, FieldCommunication}

// Field is one optional raw value. Survey exports mix strings, numbers and
// missing keys for the same column, so every access goes through Field.
type Field struct {
	Raw     string
	Present bool
	Numeric bool
}

// Text builds a present string field.
func Text(s string) Field {
	return Field{Raw: s, Present: true}
}

// Number builds a present numeric field.
func Number(f float64) Field {
	return Field{Raw: strconv.FormatFloat(f, 'f', -1, 64), Present: true, Numeric: true}
}

// Usable reports whether the field can feed a computation: present, non-empty,
// not the "NA" sentinel, and not a numeric zero.
func (f Field) Usable() bool {
	if !f.Present || f.Raw == "" || f.Raw == NotAvailable {
		return false
	}
	if f.Numeric {
		v, err := strconv.ParseFloat(f.Raw, 64)
		if err == nil && v == 0 {
			return false
		}
	}
	return true
}

func (f *Field) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*f = Field{}
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = Text(s)
	default:
		_, err := strconv.ParseFloat(string(b), 64)
		*f = Field{Raw: string(b), Present: true, Numeric: err == nil}
	}
	return nil
}

func (f Field) MarshalJSON() ([]byte, error) {
	if !f.Present {
		return []byte("null"), nil
	}
	if f.Numeric {
		return []byte(f.Raw), nil
	}
	return json.Marshal(f.Raw)
}

// SurveyRecord is one respondent. Continent is not part of the source data;
// the loader stamps it from the source the record came from.
type SurveyRecord struct {
	Continent  string
	Country    Field
	WorkExp    Field
	CompTotal  Field
	Currency   Field
	EdLevel    Field
	DevType    Field
	MultiValue map[string]Field
}

// Get returns a field by its raw name.
func (r SurveyRecord) Get(name string) Field {
	switch name {
	case FieldCountry:
		return r.Country
	case FieldWorkExp:
		return r.WorkExp
	case FieldCompTotal:
		return r.CompTotal
	case FieldCurrency:
		return r.Currency
	case FieldEdLevel:
		return r.EdLevel
	case FieldDevType:
		return r.DevType
	}
	return r.MultiValue[name]
}

func (r *SurveyRecord) UnmarshalJSON(b []byte) error {
	var raw map[string]Field
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*r = SurveyRecord{
		Country:   raw[FieldCountry],
		WorkExp:   raw[FieldWorkExp],
		CompTotal: raw[FieldCompTotal],
		Currency:  raw[FieldCurrency],
		EdLevel:   raw[FieldEdLevel],
		DevType:   raw[FieldDevType],
	}
	for _, name := range MultiValueFields {
		if f, ok := raw[name]; ok {
			if r.MultiValue == nil {
				r.MultiValue = make(map[string]Field, len(MultiValueFields))
			}
			r.MultiValue[name] = f
		}
	}
	return nil
}

// Wildcards used by the dashboard selectors. The continent selector is
// lower-case, the others are capitalised.
const (
	AllContinents = "all"
	AllCountries  = "All"
	AllDevTypes   = "All"
)

// ExperienceBucket is a years-of-experience range selector.
type ExperienceBucket string

const (
	Experience0To5   ExperienceBucket = "0-5"
	Experience6To10  ExperienceBucket = "6-10"
	Experience11To15 ExperienceBucket = "11-15"
	Experience16To20 ExperienceBucket = "16-20"
	Experience21Plus ExperienceBucket = "21+"
	ExperienceAll    ExperienceBucket = "all"
)

// FilterSelection is the per-query selection made in the dashboard.
type FilterSelection struct {
	Continent  string           `json:"continent"`
	Country    string           `json:"country"`
	Experience ExperienceBucket `json:"experience"`
	DevType    string           `json:"dev_type"`
}

// DefaultSelection matches every record.
func DefaultSelection() FilterSelection {
	return FilterSelection{
		Continent:  AllContinents,
		Country:    AllCountries,
		Experience: ExperienceAll,
		DevType:    AllDevTypes,
	}
}

// Point is one labeled value of an aggregation result.
type Point struct {
	Label string
	Value float64
	Count int
}

// AggregationResult is an ordered series, built fresh per query.
type AggregationResult []Point

// AverageSeries is the chart payload for mean compensation charts.
type AverageSeries struct {
	Labels   []string `json:"labels"`
	Averages []string `json:"averages"`
}

// CountSeries is the chart payload for top-N popularity charts.
type CountSeries struct {
	Labels []string `json:"labels"`
	Counts []int    `json:"counts"`
}

// SourceReport describes how one record source fared during loading.
type SourceReport struct {
	Location  string `json:"location"`
	Continent string `json:"continent"`
	Records   int    `json:"records"`
	Error     string `json:"error,omitempty"`
}

// DashboardData is every chart of the dashboard for one selection.
type DashboardData struct {
	Selection           FilterSelection `json:"selection"`
	SalaryByExperience  AverageSeries   `json:"salary_by_experience"`
	SalaryByEducation   AverageSeries   `json:"salary_by_education"`
	SalaryByPlatform    AverageSeries   `json:"salary_by_platform"`
	SalaryByFramework   AverageSeries   `json:"salary_by_framework"`
	TopOperatingSystems CountSeries     `json:"top_operating_systems"`
	TopCommunication    CountSeries     `json:"top_communication_tools"`
}
