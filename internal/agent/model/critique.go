package model

import "time"

// Verdicts emitted by the critic model.
const (
	VerdictApprove = "approve"
	VerdictRevise  = "revise"
)

// Issue categories the critic may flag. Everything here is a grounding
// failure: a claim in the draft that no tool observation supports.
const (
	IssueUngroundedPrice    = "ungrounded_price"
	IssueUngroundedDiscount = "ungrounded_discount"
	IssueUnknownProduct     = "unknown_product"
	IssueUnknownStore       = "unknown_store"
	IssueUnverifiedDelivery = "unverified_delivery"
	IssueMissingCheck       = "missing_check"
)

// CritiqueIssue is a single problem the critic found in a draft answer.
type CritiqueIssue struct {
	Category string         `json:"category"`
	Claim    string         `json:"claim"`
	Note     string         `json:"note,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Critique is the structured result of auditing a draft answer.
type Critique struct {
	Verdict         string          `json:"verdict"`
	Confidence      float64         `json:"confidence"`
	Issues          []CritiqueIssue `json:"issues"`
	ParsingMetadata map[string]any  `json:"parsing_metadata,omitempty"`
	Timestamp       time.Time       `json:"timestamp"`
}

// ShouldRevise reports whether the draft needs another response-model pass.
func (c *Critique) ShouldRevise() bool {
	return c != nil && c.Verdict == VerdictRevise && len(c.Issues) > 0
}
