package models

// AnalysisResult is the outcome of a symptom analysis. PossibleConditions
// keeps the order produced by the strategy that generated it.
type AnalysisResult struct {
	PossibleConditions []string `json:"possibleConditions"`
}

// Clone returns a deep copy so callers can't mutate shared pool entries.
func (r *AnalysisResult) Clone() *AnalysisResult {
	if r == nil {
		return nil
	}
	conditions := make([]string, len(r.PossibleConditions))
	copy(conditions, r.PossibleConditions)
	return &AnalysisResult{PossibleConditions: conditions}
}

// Empty reports whether the result carries no suggestions.
func (r *AnalysisResult) Empty() bool {
	return r == nil || len(r.PossibleConditions) == 0
}
