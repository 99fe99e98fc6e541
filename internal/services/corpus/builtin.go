package corpus

import (
	"sort"
	"strings"

	"github.com/ternarybob/lexiq/internal/models"
)

// builtinEntry scores itself against a query: the boosted score applies when
// any keyword matches, the base score otherwise.
type builtinEntry struct {
	result    models.CorpusResult
	keywords  []string
	boosted   float64
	baseScore float64
}

var builtinEntries = []builtinEntry{
	{
		result: models.CorpusResult{
			Title:   "Tenant Rights - Security Deposits",
			Snippet: "Landlords must return security deposits within 30 days of lease termination, minus documented damages.",
			Link:    "https://example.gov/tenant-rights#security-deposits",
			Source:  "State Housing Law",
		},
		keywords:  []string{"security deposit"},
		boosted:   0.95,
		baseScore: 0.3,
	},
	{
		result: models.CorpusResult{
			Title:   "Contract Termination Rights",
			Snippet: "Either party may terminate a contract with proper notice as specified in the agreement terms.",
			Link:    "https://example.gov/contract-law#termination",
			Source:  "Contract Law Statute",
		},
		keywords:  []string{"termination"},
		boosted:   0.9,
		baseScore: 0.4,
	},
	{
		result: models.CorpusResult{
			Title:   "Limitation of Liability Clauses",
			Snippet: "Liability limitation clauses are enforceable but cannot waive liability for gross negligence or intentional misconduct.",
			Link:    "https://example.gov/contract-law#liability",
			Source:  "Civil Code Section 1668",
		},
		keywords:  []string{"liability"},
		boosted:   0.85,
		baseScore: 0.2,
	},
	{
		result: models.CorpusResult{
			Title:   "Data Privacy Requirements",
			Snippet: "Companies must obtain explicit consent before sharing personal data with third parties.",
			Link:    "https://example.gov/privacy-law",
			Source:  "Privacy Protection Act",
		},
		keywords:  []string{"data", "privacy"},
		boosted:   0.9,
		baseScore: 0.3,
	},
	{
		result: models.CorpusResult{
			Title:   "Employment Contract Standards",
			Snippet: "Non-compete clauses must be reasonable in scope, duration, and geographic area to be enforceable.",
			Link:    "https://example.gov/employment-law#non-compete",
			Source:  "Labor Code",
		},
		keywords:  []string{"employment", "non-compete"},
		boosted:   0.8,
		baseScore: 0.25,
	},
}

// searchBuiltin scores the reference table against the query and returns the
// top entries by relevance.
func searchBuiltin(query string, limit int) []models.CorpusResult {
	lowered := strings.ToLower(query)

	scored := make([]models.CorpusResult, 0, len(builtinEntries))
	for _, entry := range builtinEntries {
		result := entry.result
		result.RelevanceScore = entry.baseScore
		for _, keyword := range entry.keywords {
			if strings.Contains(lowered, keyword) {
				result.RelevanceScore = entry.boosted
				break
			}
		}
		scored = append(scored, result)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].RelevanceScore > scored[j].RelevanceScore
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}
