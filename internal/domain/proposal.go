package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ChangeProposal is a computed, not-yet-applied mutation to a single field
// of a single row. Proposals are derived on demand and never stored;
// applying one performs the underlying mutation directly.
type ChangeProposal struct {
	ChangeID      string       `json:"changeId"`
	ResourceType  ResourceType `json:"resourceType"`
	ResourceID    int64        `json:"resourceId"`
	Field         string       `json:"field"`
	CurrentValue  string       `json:"currentValue"`
	ProposedValue string       `json:"proposedValue"`
	ChangeType    ChangeType   `json:"changeType"`
	Reason        string       `json:"reason"`
	Confidence    float64      `json:"confidence"`

	// DisplayOnly marks a presentation change with no column to mutate;
	// applying it always succeeds without a query.
	DisplayOnly bool `json:"displayOnly,omitempty"`
	// AffectsAllRows marks a change that logically covers every row of the
	// type (e.g. hiding a column); such proposals are deduplicated to one
	// instance per (type, field).
	AffectsAllRows bool `json:"affectsAllRows,omitempty"`
}

// ChangeResult reports the outcome of applying or rejecting one change.
type ChangeResult struct {
	ChangeID string `json:"changeId"`
	Success  bool   `json:"success"`
	Message  string `json:"message"`
}

// NewChangeID derives the stable identifier of a logical change. The same
// (type, id, field, changeType) always hashes to the same id, so apply and
// reject calls keep targeting the right change across regenerations.
func NewChangeID(rt ResourceType, resourceID int64, field string, ct ChangeType) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%d|%s|%s", rt, resourceID, field, ct)))
	return hex.EncodeToString(sum[:])[:16]
}
