package enums

// InsightType classifies generated financial insights.
type InsightType string

const (
	InsightTypeRecommendation InsightType = "recommendation"
	InsightTypeWarning        InsightType = "warning"
	InsightTypeAnalysis       InsightType = "analysis"
)

// IsValid reports whether the value is a known InsightType.
func (i InsightType) IsValid() bool {
	switch i {
	case InsightTypeRecommendation, InsightTypeWarning, InsightTypeAnalysis:
		return true
	}
	return false
}

// InsightSeverity grades how urgent an insight is.
type InsightSeverity string

const (
	InsightSeverityLow    InsightSeverity = "low"
	InsightSeverityMedium InsightSeverity = "medium"
	InsightSeverityHigh   InsightSeverity = "high"
)

// IsValid reports whether the value is a known InsightSeverity.
func (s InsightSeverity) IsValid() bool {
	switch s {
	case InsightSeverityLow, InsightSeverityMedium, InsightSeverityHigh:
		return true
	}
	return false
}
