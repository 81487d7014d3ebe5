package models

import (
	"time"
)

// Risk levels in ascending severity
const (
	RiskLevelLow      = "LOW"
	RiskLevelMedium   = "MEDIUM"
	RiskLevelHigh     = "HIGH"
	RiskLevelCritical = "CRITICAL"
)

var riskLevelRank = map[string]int{
	RiskLevelLow:      0,
	RiskLevelMedium:   1,
	RiskLevelHigh:     2,
	RiskLevelCritical: 3,
}

// RiskLevelRank returns the severity rank of a risk level, -1 for unknown levels.
func RiskLevelRank(level string) int {
	if r, ok := riskLevelRank[level]; ok {
		return r
	}
	return -1
}

// RiskAnalysis is the stored result of one scoring call. Records are
// append-only; corrections require a new analysis.
type RiskAnalysis struct {
	ID               uint       `gorm:"primarykey" json:"analysis_id"`
	FilingID         string     `gorm:"not null;index" json:"filing_id"`
	TaxpayerID       string     `gorm:"not null;index" json:"taxpayer_id"`
	RiskScore        float64    `gorm:"not null" json:"risk_score"`
	RiskLevel        string     `gorm:"not null;default:'LOW'" json:"risk_level"`
	RiskFactors      StringList `gorm:"type:jsonb" json:"risk_factors"`
	Confidence       float64    `gorm:"not null" json:"confidence"`
	Recommendation   string     `json:"recommendation"`
	Details          JSON       `gorm:"type:jsonb" json:"details,omitempty"`
	ProcessingTimeMs int        `json:"processing_time_ms"`
	CreatedAt        time.Time  `json:"created_at"`
}
