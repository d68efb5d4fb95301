package models

import "time"

// Risk flag names derived from pattern and keyword matches. They drive
// moderation triage independently of the numeric score.
const (
	FlagSuspiciousPaymentRequest    = "suspicious_payment_request"
	FlagBankingInfoRequest          = "banking_info_request"
	FlagUpfrontPaymentRequest       = "upfront_payment_request"
	FlagInappropriateMeetingRequest = "inappropriate_meeting_request"
)

// RiskAssessment is the analyzer output attached to a message at creation
// time. File, image and video messages receive a zero-valued assessment: the
// analyzer only processes text, and the stored value reflects that.
type RiskAssessment struct {
	FraudScore         int       `json:"fraud_score"`
	SentimentScore     float64   `json:"sentiment_score"`
	RiskFlags          []string  `json:"risk_flags,omitempty"`
	Inappropriate      bool      `json:"inappropriate"`
	SuspiciousKeywords []string  `json:"suspicious_keywords,omitempty"`
	AnalyzedAt         time.Time `json:"analyzed_at"`
}

// HasFlag reports whether the assessment carries the named risk flag.
func (ra *RiskAssessment) HasFlag(name string) bool {
	for _, f := range ra.RiskFlags {
		if f == name {
			return true
		}
	}
	return false
}
