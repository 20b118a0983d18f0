package engine

import "backend/internal/models"

// RecordSet is the survey data loaded for the session. It is never mutated
// after LoadSources returns; queries read it concurrently.
type RecordSet struct {
	Records []models.SurveyRecord
	Sources []models.SourceReport
}

// Len returns the number of loaded records.
func (rs *RecordSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.Records)
}

// Aggregate computes every dashboard chart for one selection.
func (rs *RecordSet) Aggregate(sel models.FilterSelection, topN int) *models.DashboardData {
	var records []models.SurveyRecord
	if rs != nil {
		records = rs.Records
	}
	return &models.DashboardData{
		Selection:           sel,
		SalaryByExperience:  ShapeAverages(AverageCompensationByExperience(records, sel)),
		SalaryByEducation:   ShapeAverages(AverageCompensationByEducation(records, sel)),
		SalaryByPlatform:    ShapeAverages(AverageCompensationByCloudPlatform(records, sel)),
		SalaryByFramework:   ShapeAverages(AverageCompensationByWebFramework(records, sel)),
		TopOperatingSystems: ShapeCounts(TopOperatingSystems(records, sel, topN)),
		TopCommunication:    ShapeCounts(TopCommunicationTools(records, sel, topN)),
	}
}
