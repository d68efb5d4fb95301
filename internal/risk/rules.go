package risk

import "regexp"

// RuleSet is the full rule configuration for the analyzer. It is passed in at
// construction rather than read from package-level state, so alternate rule
// sets can be tested and tuned without touching the scoring code.
type RuleSet struct {
	// FraudKeywords add KeywordWeight each when present as a substring.
	FraudKeywords []string
	KeywordWeight int

	// SuspiciousPatterns add PatternWeight each when they match.
	SuspiciousPatterns []*regexp.Regexp
	PatternWeight      int

	// UrgencyTerms add UrgencyWeight each when present.
	UrgencyTerms  []string
	UrgencyWeight int

	// MoneyPattern adds MoneyWeight once when a currency amount is mentioned.
	MoneyPattern *regexp.Regexp
	MoneyWeight  int

	// MeetingPattern drives the inappropriate_meeting_request flag.
	MeetingPattern *regexp.Regexp

	// InappropriateTerms set the inappropriate flag when any is present.
	InappropriateTerms []string

	// PositiveTerms and NegativeTerms drive the naive sentiment score,
	// +0.1 / -0.1 per hit, clamped to [-1, 1].
	PositiveTerms []string
	NegativeTerms []string

	// AlertThreshold is the fraud score above which callers are warned.
	// CriticalThreshold is the score above which the warning escalates.
	AlertThreshold    int
	CriticalThreshold int
}

// DefaultRules returns the production rule set.
func DefaultRules() RuleSet {
	return RuleSet{
		FraudKeywords: []string{
			"money upfront",
			"registration fee",
			"processing fee",
			"training fee",
			"security deposit",
			"bank details",
			"bank account",
			"credit card",
			"bitcoin",
			"cryptocurrency",
			"wire transfer",
			"western union",
			"gift card",
			"send money",
			"pay first",
			"advance payment",
		},
		KeywordWeight: 15,

		SuspiciousPatterns: []*regexp.Regexp{
			regexp.MustCompile(`pay\s+\$?\d+.*(start|job|position)`),
			regexp.MustCompile(`send\s+money.*(job|position|offer)`),
			regexp.MustCompile(`bank\s+account\s+details`),
			regexp.MustCompile(`urgent\s+payment\s+required`),
			regexp.MustCompile(`deposit\s+\$?\d+.*(job|position|secure)`),
		},
		PatternWeight: 25,

		UrgencyTerms: []string{
			"urgent",
			"immediately",
			"asap",
			"right now",
			"quick",
			"hurry",
		},
		UrgencyWeight: 5,

		MoneyPattern: regexp.MustCompile(`\$\d+|\b\d+\s*(dollars|usd|euros|pounds)\b`),
		MoneyWeight:  10,

		MeetingPattern: regexp.MustCompile(`(meet|meeting).*(hotel|private|apartment|my place)|come\s+to\s+my\s+(hotel|place|apartment)`),

		InappropriateTerms: []string{
			"sexy",
			"sleep with",
			"one night stand",
			"sugar daddy",
			"escort",
			"nudes",
			"hot body",
		},

		PositiveTerms: []string{
			"thanks",
			"thank you",
			"great",
			"excellent",
			"appreciate",
			"wonderful",
			"pleased",
			"congratulations",
			"welcome",
			"looking forward",
		},
		NegativeTerms: []string{
			"scam",
			"fraud",
			"fake",
			"terrible",
			"awful",
			"angry",
			"threat",
			"report you",
			"waste of time",
			"liar",
		},

		AlertThreshold:    60,
		CriticalThreshold: 80,
	}
}
