// Package risk scores message text for job-scam signals. The analyzer is a
// pure function over its rule set: no I/O, no randomness, no learned model.
// Identical input always produces identical scores and flags, so every stored
// assessment can be re-derived and audited rule by rule.
package risk

import (
	"strings"
	"time"

	"github.com/hirelink/backend/internal/models"
)

// Analyzer evaluates text against a fixed rule set.
type Analyzer struct {
	rules RuleSet
}

// NewAnalyzer creates an analyzer for the given rule set.
func NewAnalyzer(rules RuleSet) *Analyzer {
	return &Analyzer{rules: rules}
}

// Analyze scores a single message text. All rule weights are additive and the
// total is clamped to [0, 100], so adding more matching content never lowers
// the score.
func (a *Analyzer) Analyze(text string) models.RiskAssessment {
	lower := strings.ToLower(text)

	score := 0
	var keywords []string
	for _, kw := range a.rules.FraudKeywords {
		if strings.Contains(lower, kw) {
			score += a.rules.KeywordWeight
			keywords = append(keywords, kw)
		}
	}

	patternMatched := false
	for _, re := range a.rules.SuspiciousPatterns {
		if re.MatchString(lower) {
			score += a.rules.PatternWeight
			patternMatched = true
		}
	}

	for _, term := range a.rules.UrgencyTerms {
		if strings.Contains(lower, term) {
			score += a.rules.UrgencyWeight
		}
	}

	if a.rules.MoneyPattern.MatchString(lower) {
		score += a.rules.MoneyWeight
	}

	if score > 100 {
		score = 100
	}

	var flags []string
	if patternMatched {
		flags = append(flags, models.FlagSuspiciousPaymentRequest)
	}
	if strings.Contains(lower, "bank") && strings.Contains(lower, "details") {
		flags = append(flags, models.FlagBankingInfoRequest)
	}
	if strings.Contains(lower, "fee") || strings.Contains(lower, "deposit") {
		flags = append(flags, models.FlagUpfrontPaymentRequest)
	}
	if a.rules.MeetingPattern.MatchString(lower) {
		flags = append(flags, models.FlagInappropriateMeetingRequest)
	}

	inappropriate := false
	for _, term := range a.rules.InappropriateTerms {
		if strings.Contains(lower, term) {
			inappropriate = true
			break
		}
	}

	sentiment := 0.0
	for _, term := range a.rules.PositiveTerms {
		if strings.Contains(lower, term) {
			sentiment += 0.1
		}
	}
	for _, term := range a.rules.NegativeTerms {
		if strings.Contains(lower, term) {
			sentiment -= 0.1
		}
	}
	if sentiment > 1 {
		sentiment = 1
	}
	if sentiment < -1 {
		sentiment = -1
	}

	return models.RiskAssessment{
		FraudScore:         score,
		SentimentScore:     sentiment,
		RiskFlags:          flags,
		Inappropriate:      inappropriate,
		SuspiciousKeywords: keywords,
		AnalyzedAt:         time.Now().UTC(),
	}
}

// ShouldAlert reports whether the sender should be shown a warning for this
// assessment. The thresholds live on the rule set, not in the scoring.
func (a *Analyzer) ShouldAlert(ra models.RiskAssessment) bool {
	if ra.FraudScore > a.rules.AlertThreshold {
		return true
	}
	if ra.HasFlag(models.FlagBankingInfoRequest) || ra.HasFlag(models.FlagUpfrontPaymentRequest) {
		return true
	}
	return ra.Inappropriate
}

// Warning texts surfaced to callers alongside a flagged message.
const (
	WarningCritical      = "Critical: this message matches known job-scam patterns. Never send money or banking details to someone you met through a job posting."
	WarningInappropriate = "This message may contain inappropriate content. Keep conversations professional and report anything that makes you uncomfortable."
	WarningCaution       = "Caution: this message contains signals often seen in recruitment scams. Legitimate employers never ask for payment."
)

// WarningFor maps an assessment to the warning text shown to the sender.
// Returns "" when no band applies. A critical score takes precedence over
// the inappropriate-content warning when both apply.
func (a *Analyzer) WarningFor(ra models.RiskAssessment) string {
	switch {
	case ra.FraudScore > a.rules.CriticalThreshold:
		return WarningCritical
	case ra.Inappropriate:
		return WarningInappropriate
	case ra.FraudScore > a.rules.AlertThreshold:
		return WarningCaution
	default:
		return ""
	}
}

// ZeroAssessment is the assessment attached to file, image and video
// messages. Binary payloads are not analyzed; the stored zero value records
// that nothing was scored rather than implying the content is safe.
func ZeroAssessment() models.RiskAssessment {
	return models.RiskAssessment{AnalyzedAt: time.Now().UTC()}
}
