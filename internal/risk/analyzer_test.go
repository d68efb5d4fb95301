package risk

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirelink/backend/internal/models"
)

func TestAnalyze_Deterministic(t *testing.T) {
	analyzer := NewAnalyzer(DefaultRules())
	text := "Please send your bank account details and a $200 registration fee immediately"

	first := analyzer.Analyze(text)
	second := analyzer.Analyze(text)

	// The audit timestamp is the only field allowed to differ.
	first.AnalyzedAt = time.Time{}
	second.AnalyzedAt = time.Time{}
	assert.Equal(t, first, second)
}

func TestAnalyze_ScamScenario(t *testing.T) {
	analyzer := NewAnalyzer(DefaultRules())
	ra := analyzer.Analyze("Please send your bank account details and a $200 registration fee immediately")

	assert.GreaterOrEqual(t, ra.FraudScore, 60)
	assert.True(t, ra.HasFlag(models.FlagBankingInfoRequest))
	assert.True(t, ra.HasFlag(models.FlagUpfrontPaymentRequest))
	assert.Contains(t, ra.SuspiciousKeywords, "registration fee")
	assert.True(t, analyzer.ShouldAlert(ra))
	assert.NotEmpty(t, analyzer.WarningFor(ra))
}

func TestAnalyze_BenignScenario(t *testing.T) {
	analyzer := NewAnalyzer(DefaultRules())
	ra := analyzer.Analyze("Thanks, can we schedule an interview for Tuesday?")

	assert.Equal(t, 0, ra.FraudScore)
	assert.Empty(t, ra.RiskFlags)
	assert.Empty(t, ra.SuspiciousKeywords)
	assert.False(t, ra.Inappropriate)
	assert.False(t, analyzer.ShouldAlert(ra))
	assert.Empty(t, analyzer.WarningFor(ra))
	assert.Greater(t, ra.SentimentScore, 0.0) // "thanks"
}

func TestAnalyze_ScoreBounds(t *testing.T) {
	analyzer := NewAnalyzer(DefaultRules())

	// Text hitting every rule class repeatedly must clamp at 100.
	flood := "urgent urgent payment required immediately asap right now, pay $500 to start the job, " +
		"send money for the position, deposit $300 to secure the job, bank account details, " +
		"registration fee, processing fee, training fee, security deposit, bitcoin, wire transfer, " +
		"western union, gift card, money upfront, pay first, advance payment, 500 dollars"
	ra := analyzer.Analyze(flood)
	assert.Equal(t, 100, ra.FraudScore)

	ra = analyzer.Analyze("")
	assert.Equal(t, 0, ra.FraudScore)
	assert.Empty(t, ra.RiskFlags)
}

func TestAnalyze_AdditiveMonotonicity(t *testing.T) {
	analyzer := NewAnalyzer(DefaultRules())

	base := "We would like to discuss the role"
	additions := []string{
		" and there is a registration fee",
		" paid by wire transfer",
		" of $100",
		" immediately",
	}

	prev := analyzer.Analyze(base).FraudScore
	text := base
	for _, add := range additions {
		text += add
		score := analyzer.Analyze(text).FraudScore
		assert.GreaterOrEqual(t, score, prev, "score dropped after adding %q", add)
		prev = score
	}
}

func TestAnalyze_Flags(t *testing.T) {
	analyzer := NewAnalyzer(DefaultRules())

	tests := []struct {
		name string
		text string
		flag string
	}{
		{"payment pattern", "you must pay $50 to start the job", models.FlagSuspiciousPaymentRequest},
		{"banking info", "share your bank login details with me", models.FlagBankingInfoRequest},
		{"upfront fee", "there is a small fee for onboarding", models.FlagUpfrontPaymentRequest},
		{"upfront deposit", "a refundable deposit is needed", models.FlagUpfrontPaymentRequest},
		{"meeting request", "let's meet at my private hotel room to discuss", models.FlagInappropriateMeetingRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ra := analyzer.Analyze(tt.text)
			assert.True(t, ra.HasFlag(tt.flag), "expected flag %s, got %v", tt.flag, ra.RiskFlags)
		})
	}
}

func TestAnalyze_Inappropriate(t *testing.T) {
	analyzer := NewAnalyzer(DefaultRules())

	ra := analyzer.Analyze("you have a hot body, want to be my sugar daddy?")
	assert.True(t, ra.Inappropriate)
	assert.True(t, analyzer.ShouldAlert(ra))

	ra = analyzer.Analyze("your qualifications look like a great fit")
	assert.False(t, ra.Inappropriate)
}

func TestAnalyze_Sentiment(t *testing.T) {
	analyzer := NewAnalyzer(DefaultRules())

	positive := analyzer.Analyze("Thank you, this is excellent news, I really appreciate it!")
	assert.Greater(t, positive.SentimentScore, 0.2)

	negative := analyzer.Analyze("This is a scam and you are a fraud, what a terrible waste of time")
	assert.Less(t, negative.SentimentScore, -0.2)

	// Clamped to [-1, 1] no matter how many terms hit.
	assert.GreaterOrEqual(t, negative.SentimentScore, -1.0)
	assert.LessOrEqual(t, positive.SentimentScore, 1.0)
}

func TestShouldAlert(t *testing.T) {
	analyzer := NewAnalyzer(DefaultRules())

	tests := []struct {
		name string
		ra   models.RiskAssessment
		want bool
	}{
		{"low score no flags", models.RiskAssessment{FraudScore: 30}, false},
		{"at threshold", models.RiskAssessment{FraudScore: 60}, false},
		{"above threshold", models.RiskAssessment{FraudScore: 61}, true},
		{"banking flag alone", models.RiskAssessment{FraudScore: 15, RiskFlags: []string{models.FlagBankingInfoRequest}}, true},
		{"upfront flag alone", models.RiskAssessment{FraudScore: 15, RiskFlags: []string{models.FlagUpfrontPaymentRequest}}, true},
		{"other flag alone", models.RiskAssessment{FraudScore: 15, RiskFlags: []string{models.FlagSuspiciousPaymentRequest}}, false},
		{"inappropriate alone", models.RiskAssessment{Inappropriate: true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, analyzer.ShouldAlert(tt.ra))
		})
	}
}

func TestWarningFor_Banding(t *testing.T) {
	analyzer := NewAnalyzer(DefaultRules())

	none := analyzer.WarningFor(models.RiskAssessment{FraudScore: 60})
	assert.Empty(t, none)

	caution := analyzer.WarningFor(models.RiskAssessment{FraudScore: 70})
	require.NotEmpty(t, caution)

	critical := analyzer.WarningFor(models.RiskAssessment{FraudScore: 90})
	require.NotEmpty(t, critical)
	assert.NotEqual(t, caution, critical)

	inappropriate := analyzer.WarningFor(models.RiskAssessment{FraudScore: 10, Inappropriate: true})
	require.NotEmpty(t, inappropriate)

	// Critical outranks inappropriate when both apply.
	both := analyzer.WarningFor(models.RiskAssessment{FraudScore: 90, Inappropriate: true})
	assert.Equal(t, critical, both)

	// Inappropriate outranks caution.
	mid := analyzer.WarningFor(models.RiskAssessment{FraudScore: 70, Inappropriate: true})
	assert.Equal(t, inappropriate, mid)
}

func TestAnalyze_CustomRules(t *testing.T) {
	rules := RuleSet{
		FraudKeywords:      []string{"pineapple"},
		KeywordWeight:      40,
		SuspiciousPatterns: []*regexp.Regexp{regexp.MustCompile(`golden\s+ticket`)},
		PatternWeight:      50,
		UrgencyTerms:       []string{"now"},
		UrgencyWeight:      5,
		MoneyPattern:       regexp.MustCompile(`\$\d+`),
		MoneyWeight:        10,
		MeetingPattern:     regexp.MustCompile(`backroom`),
		InappropriateTerms: []string{"rude word"},
		AlertThreshold:     30,
		CriticalThreshold:  80,
	}
	analyzer := NewAnalyzer(rules)

	ra := analyzer.Analyze("send a pineapple for the golden ticket, only $5")
	assert.Equal(t, 100, ra.FraudScore) // 40 + 50 + 10 = 100
	assert.Contains(t, ra.SuspiciousKeywords, "pineapple")
	assert.True(t, analyzer.ShouldAlert(ra))

	// Default scam vocabulary means nothing to a custom rule set.
	ra = analyzer.Analyze("registration fee via wire transfer")
	assert.Equal(t, 0, ra.FraudScore)
}

func TestZeroAssessment(t *testing.T) {
	ra := ZeroAssessment()
	assert.Equal(t, 0, ra.FraudScore)
	assert.Empty(t, ra.RiskFlags)
	assert.False(t, ra.Inappropriate)
	assert.False(t, ra.AnalyzedAt.IsZero())
}
