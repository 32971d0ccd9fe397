package types

// VerbSuggestion proposes replacements for one weak verb
type VerbSuggestion struct {
	WeakVerb    string   `json:"weak_verb"`
	Suggestions []string `json:"suggestions"`
	Example     string   `json:"example"`
	Original    string   `json:"original,omitempty"`
}

// ActionVerbResult is the output of the action verb analyzer
type ActionVerbResult struct {
	Score       int              `json:"score"`
	TotalVerbs  int              `json:"total_verbs"`
	StrongVerbs []string         `json:"strong_verbs"`
	WeakVerbs   []string         `json:"weak_verbs"`
	Suggestions []VerbSuggestion `json:"suggestions"`
}

// QuantificationResult is the output of the quantifiable achievement analyzer.
// Both maps and the missing list are keyed by "{company} - {position}".
type QuantificationResult struct {
	Score                  int                 `json:"score"`
	TotalAchievements      int                 `json:"total_achievements"`
	QuantifiedCount        int                 `json:"quantified_count"`
	QuantifiedAchievements map[string][]string `json:"quantified_achievements"`
	MissingQuantification  []string            `json:"missing_quantification"`
}

// KeywordMatchResult is the output of the keyword matching analyzer
type KeywordMatchResult struct {
	Score            int      `json:"score"`
	TotalJobKeywords int      `json:"total_job_keywords"`
	MatchedKeywords  []string `json:"matched_keywords"`
	MissingKeywords  []string `json:"missing_keywords"`
	MatchPercentage  int      `json:"match_percentage"`
	RequiredMatched  int      `json:"required_matched"`
	RequiredTotal    int      `json:"required_total"`
	PreferredMatched int      `json:"preferred_matched"`
	PreferredTotal   int      `json:"preferred_total"`
}

// ClarityResult is the output of the clarity and impact analyzer
type ClarityResult struct {
	Score                 int      `json:"score"`
	ClarityScore          int      `json:"clarity_score"`
	ImpactScore           int      `json:"impact_score"`
	ToneScore             int      `json:"tone_score"`
	WordCount             int      `json:"word_count"`
	SentenceCount         int      `json:"sentence_count"`
	AverageSentenceLength float64  `json:"average_sentence_length"`
	ReadabilityIssues     []string `json:"readability_issues"`
	LongSentences         []string `json:"long_sentences,omitempty"`
	ImpactWords           []string `json:"impact_words"`
}

// ATSResult is the output of the structural compatibility analyzer
type ATSResult struct {
	Score       int         `json:"score"`
	Issues      []Violation `json:"issues"`
	Suggestions []string    `json:"suggestions"`
}

// AnalysisDetails carries the evidence each analyzer produced.
// A nil analyzer result means that analyzer failed and a neutral score was used.
type AnalysisDetails struct {
	ActionVerbs     *ActionVerbResult     `json:"action_verbs,omitempty"`
	Quantification  *QuantificationResult `json:"quantification,omitempty"`
	KeywordMatching *KeywordMatchResult   `json:"keyword_matching,omitempty"`
	Clarity         *ClarityResult        `json:"clarity,omitempty"`
	ATS             *ATSResult            `json:"ats,omitempty"`
	Failures        map[string]string     `json:"failures,omitempty"`
}
