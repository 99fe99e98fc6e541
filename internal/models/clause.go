package models

// ClauseType is the closed taxonomy of legal clause categories.
type ClauseType string

const (
	ClausePartiesInvolved     ClauseType = "parties_involved"
	ClauseDefinitions         ClauseType = "definitions"
	ClausePurposeScope        ClauseType = "purpose_scope"
	ClausePaymentTerms        ClauseType = "payment_terms"
	ClauseFeesCharges         ClauseType = "fees_charges"
	ClausePenalties           ClauseType = "penalties"
	ClauseInterest            ClauseType = "interest"
	ClauseSecurityDeposit     ClauseType = "security_deposit"
	ClauseRefundPolicy        ClauseType = "refund_policy"
	ClauseContractDuration    ClauseType = "contract_duration"
	ClauseTermination         ClauseType = "termination"
	ClauseAutoRenewal         ClauseType = "auto_renewal"
	ClauseExitFees            ClauseType = "exit_fees"
	ClauseWarranties          ClauseType = "warranties"
	ClauseObligations         ClauseType = "obligations"
	ClauseLimitationLiability ClauseType = "limitation_liability"
	ClauseIndemnification     ClauseType = "indemnification"
	ClauseGoverningLaw        ClauseType = "governing_law"
	ClauseDisputeResolution   ClauseType = "dispute_resolution"
	ClauseDataOwnership       ClauseType = "data_ownership"
	ClauseDataSharing         ClauseType = "data_sharing"
	ClauseConfidentiality     ClauseType = "confidentiality"
	ClauseNonCompete          ClauseType = "non_compete"
	ClauseIPRights            ClauseType = "ip_rights"
	ClauseAmendments          ClauseType = "amendments"
	ClauseSeverability        ClauseType = "severability"
	ClauseOther               ClauseType = "other"
)

// ClauseTypes lists every valid clause type.
func ClauseTypes() []ClauseType {
	return []ClauseType{
		ClausePartiesInvolved, ClauseDefinitions, ClausePurposeScope,
		ClausePaymentTerms, ClauseFeesCharges, ClausePenalties,
		ClauseInterest, ClauseSecurityDeposit, ClauseRefundPolicy,
		ClauseContractDuration, ClauseTermination, ClauseAutoRenewal,
		ClauseExitFees, ClauseWarranties, ClauseObligations,
		ClauseLimitationLiability, ClauseIndemnification, ClauseGoverningLaw,
		ClauseDisputeResolution, ClauseDataOwnership, ClauseDataSharing,
		ClauseConfidentiality, ClauseNonCompete, ClauseIPRights,
		ClauseAmendments, ClauseSeverability, ClauseOther,
	}
}

// ParseClauseType coerces a raw model answer to a valid clause type,
// defaulting to other. Generation output is never trusted to stay inside
// the taxonomy.
func ParseClauseType(s string) ClauseType {
	for _, ct := range ClauseTypes() {
		if ClauseType(s) == ct {
			return ct
		}
	}
	return ClauseOther
}

// Citation references an external legal source backing an answer or clause.
type Citation struct {
	Source    string `json:"source"`
	Reference string `json:"reference"`
	URL       string `json:"url,omitempty"`
}

// Clause is one segmented, classified, risk-scored unit of a document.
// IDs are stable ordinals of the form clause_<n>, unique within a document.
type Clause struct {
	ID              string     `json:"id"`
	ClauseType      ClauseType `json:"clause_type"`
	OriginalText    string     `json:"original_text"`
	PlainLanguage   string     `json:"plain_language"`
	RiskLevel       RiskLevel  `json:"risk_level"`
	RiskReason      string     `json:"risk_reason"`
	Recommendations []string   `json:"recommendations"`
	Citations       []Citation `json:"citations,omitempty"`
	ConfidenceScore float64    `json:"confidence_score,omitempty"`
}
