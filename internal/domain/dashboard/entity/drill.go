package entity

import "errors"

// DrillLevel is the depth of the breakdown chart's current view
type DrillLevel string

const (
	DrillPrimary   DrillLevel = "primary"
	DrillSecondary DrillLevel = "secondary"
	DrillTertiary  DrillLevel = "tertiary"
)

// Drill transition errors
var (
	ErrDrillNotAtPrimary   = errors.New("can only drill to secondary from primary")
	ErrDrillNotAtSecondary = errors.New("can only drill to tertiary from secondary")
)

// ChartDrillState records which relevance category and which severity
// bucket the user drilled into. Transitions only go one level deeper or
// back to the parent level; any filter change resets to primary.
type ChartDrillState struct {
	Level             DrillLevel `json:"level"`
	RelevanceCategory string     `json:"relevance_category,omitempty"`
	SeverityBucket    string     `json:"severity_bucket,omitempty"`
}

// NewChartDrillState returns the primary-level state
func NewChartDrillState() ChartDrillState {
	return ChartDrillState{Level: DrillPrimary}
}

// DrillToSecondary descends into one relevance category
func (s *ChartDrillState) DrillToSecondary(category string) error {
	if s.Level != DrillPrimary {
		return ErrDrillNotAtPrimary
	}
	s.Level = DrillSecondary
	s.RelevanceCategory = category
	return nil
}

// DrillToTertiary descends into one severity bucket
func (s *ChartDrillState) DrillToTertiary(bucket string) error {
	if s.Level != DrillSecondary {
		return ErrDrillNotAtSecondary
	}
	s.Level = DrillTertiary
	s.SeverityBucket = bucket
	return nil
}

// Back pops one level, clearing the selection that produced it
func (s *ChartDrillState) Back() {
	switch s.Level {
	case DrillTertiary:
		s.Level = DrillSecondary
		s.SeverityBucket = ""
	case DrillSecondary:
		s.Level = DrillPrimary
		s.RelevanceCategory = ""
	}
}

// Reset returns to the primary level, clearing all selections
func (s *ChartDrillState) Reset() {
	*s = NewChartDrillState()
}
