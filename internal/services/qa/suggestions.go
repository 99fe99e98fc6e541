package qa

import (
	"github.com/ternarybob/lexiq/internal/models"
)

const maxSuggestedQuestions = 8

var baseQuestions = []string{
	"What are my main obligations under this contract?",
	"What happens if I want to terminate this agreement early?",
	"What fees or penalties might I be charged?",
	"What are the biggest risks I should be aware of?",
	"How can I protect myself when signing this?",
}

var typeQuestions = map[models.DocumentType][]string{
	models.DocTypeRentalAgreement: {
		"What happens if I miss a rent payment?",
		"Can my landlord increase the rent?",
		"What is my security deposit used for?",
		"Who is responsible for repairs and maintenance?",
		"How much notice do I need to give before moving out?",
	},
	models.DocTypeLoanContract: {
		"What is my total cost of borrowing?",
		"What happens if I miss a payment?",
		"Can I pay off the loan early?",
		"What collateral am I putting at risk?",
		"What are the default consequences?",
	},
	models.DocTypeEmploymentContract: {
		"What are my working hours and overtime rules?",
		"What benefits am I entitled to?",
		"Can I work for competitors after leaving?",
		"What intellectual property rights do I retain?",
		"How can my employment be terminated?",
	},
	models.DocTypeTermsOfService: {
		"What data do you collect about me?",
		"Can you change these terms without notice?",
		"What happens if I violate the terms?",
		"How do I delete my account and data?",
		"What are my rights in disputes?",
	},
}

var clauseQuestions = map[models.ClauseType]string{
	models.ClauseSecurityDeposit:     "When and how will I get my security deposit back?",
	models.ClauseNonCompete:          "What jobs am I restricted from taking after this ends?",
	models.ClauseDataSharing:         "Who else will have access to my personal information?",
	models.ClauseLimitationLiability: "What damages can I recover if something goes wrong?",
}

// clauseQuestionOrder keeps suggestion output deterministic.
var clauseQuestionOrder = []models.ClauseType{
	models.ClauseSecurityDeposit,
	models.ClauseNonCompete,
	models.ClauseDataSharing,
	models.ClauseLimitationLiability,
}

// SuggestedQuestions builds a question list from the document type and its
// classified clauses, deduplicated and capped.
func (s *Service) SuggestedQuestions(doc *models.Document) []string {
	questions := make([]string, 0, maxSuggestedQuestions)
	questions = append(questions, baseQuestions...)
	questions = append(questions, typeQuestions[doc.DocumentType]...)

	present := make(map[models.ClauseType]bool, len(doc.Clauses))
	for _, clause := range doc.Clauses {
		present[clause.ClauseType] = true
	}
	for _, clauseType := range clauseQuestionOrder {
		if present[clauseType] {
			questions = append(questions, clauseQuestions[clauseType])
		}
	}

	seen := make(map[string]bool, len(questions))
	unique := make([]string, 0, maxSuggestedQuestions)
	for _, question := range questions {
		if seen[question] {
			continue
		}
		seen[question] = true
		unique = append(unique, question)
		if len(unique) == maxSuggestedQuestions {
			break
		}
	}
	return unique
}
