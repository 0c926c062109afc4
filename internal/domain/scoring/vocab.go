package scoring

// Fixed vocabularies matched as case-insensitive substrings.
var ( //nolint:gochecknoglobals // constant vocabularies
	designTerms     = []string{"architecture", "design", "implement", "optimize"}
	difficultyTerms = []string{"complex", "challenging", "difficult"}
	achievedTerms   = []string{"complete", "achieved"}
	milestoneTerms  = []string{"milestone", "major", "key", "critical"}
	importanceTerms = []string{"critical", "key", "major", "strategic"}
	businessTerms   = []string{"customer", "revenue", "cost-saving"}
	collabTerms     = []string{"collaborated", "worked with", "helped", "supported", "paired"}
	sharingTerms    = []string{"documented", "trained", "presented", "shared", "mentored"}
	teamHelpTerms   = []string{"helped team", "supported colleague", "assisted", "mentored"}
	innovationTerms = []string{"new solution", "innovative", "improved", "optimized", "automated"}
	qualityTerms    = []string{"bug", "issue", "error"}
	resolvedTerms   = []string{"resolved", "fixed", "solved", "addressed"}
)
