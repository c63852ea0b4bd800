package core

// DefaultCategories returns the curated keyword categories the scanner is
// seeded with. Categories are data: callers may extend or prune them at
// runtime through the scanner's mutation operations.
func DefaultCategories() []*KeywordCategory {
	return []*KeywordCategory{
		{
			Name:     "urgency",
			Severity: SeverityMedium,
			Weight:   2,
			Phrases: []string{
				"urgent",
				"immediately",
				"act now",
				"right away",
				"expires soon",
				"limited time",
				"final notice",
				"last chance",
			},
		},
		{
			Name:     "verification",
			Severity: SeverityHigh,
			Weight:   3,
			Phrases: []string{
				"verify your account",
				"confirm your identity",
				"verify your identity",
				"confirm your account",
				"validate your account",
				"update your information",
			},
		},
		{
			Name:     "account-threat",
			Severity: SeverityCritical,
			Weight:   4,
			Phrases: []string{
				"account suspended",
				"suspended",
				"account locked",
				"account closed",
				"unauthorized access",
				"unusual activity",
			},
		},
		{
			Name:     "sensitive-data",
			Severity: SeverityCritical,
			Weight:   5,
			Phrases: []string{
				"password",
				"social security number",
				"ssn",
				"credit card number",
				"bank account",
				"pin number",
				"security code",
				"routing number",
			},
		},
		{
			Name:     "payment-method",
			Severity: SeverityCritical,
			Weight:   5,
			Phrases: []string{
				"wire transfer",
				"gift card",
				"gift cards",
				"western union",
				"moneygram",
				"bitcoin",
				"cryptocurrency",
				"prepaid card",
			},
		},
		{
			Name:     "prize",
			Severity: SeverityHigh,
			Weight:   3,
			Phrases: []string{
				"you have won",
				"claim your prize",
				"lottery winner",
				"free money",
				"exclusive offer",
			},
		},
		{
			Name:     "impersonation",
			Severity: SeverityMedium,
			Weight:   2,
			Phrases: []string{
				"microsoft support",
				"apple support",
				"tech support",
				"irs agent",
				"customer service team",
				"fraud department",
			},
		},
	}
}
