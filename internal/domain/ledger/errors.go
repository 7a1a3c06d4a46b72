package ledger

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/openbooks/backend/internal/domain/shared"
)

// Error codes for malformed ledger input. All three are data errors, not
// environmental ones: the calculator fails fast rather than produce report
// figures from corrupted input.
const (
	ErrCodeInvalidReference    = "LEDGER_INVALID_REFERENCE"
	ErrCodeCyclicGroup         = "LEDGER_CYCLIC_GROUP"
	ErrCodeInconsistentPosting = "LEDGER_INCONSISTENT_POSTING"
	ErrCodeUnbalancedEntry     = "LEDGER_UNBALANCED_ENTRY"
)

// NewInvalidReferenceError reports a posting or account pointing at an
// entity that does not exist in the supplied snapshot
func NewInvalidReferenceError(detail string) *shared.DomainError {
	return shared.NewDomainError(ErrCodeInvalidReference, detail)
}

// NewUnknownAccountError reports a posting referencing an unknown account
func NewUnknownAccountError(postingID, accountID uuid.UUID) *shared.DomainError {
	return shared.NewDomainError(ErrCodeInvalidReference,
		fmt.Sprintf("posting %s references unknown account %s", postingID, accountID))
}

// NewUnknownGroupError reports an account referencing an unknown group
func NewUnknownGroupError(accountCode string, groupID uuid.UUID) *shared.DomainError {
	return shared.NewDomainError(ErrCodeInvalidReference,
		fmt.Sprintf("account %s references unknown group %s", accountCode, groupID))
}

// NewCyclicGroupError reports a group parent chain that does not terminate
func NewCyclicGroupError(groupID uuid.UUID) *shared.DomainError {
	return shared.NewDomainError(ErrCodeCyclicGroup,
		fmt.Sprintf("group hierarchy containing %s does not terminate", groupID))
}

// NewInconsistentPostingError reports an ambiguous or malformed posting
func NewInconsistentPostingError(postingID uuid.UUID, detail string) *shared.DomainError {
	return shared.NewDomainError(ErrCodeInconsistentPosting,
		fmt.Sprintf("posting %s: %s", postingID, detail))
}

// NewUnbalancedEntryError reports a journal entry whose debits and credits
// do not match
func NewUnbalancedEntryError(debit, credit string) *shared.DomainError {
	return shared.NewDomainError(ErrCodeUnbalancedEntry,
		fmt.Sprintf("journal entry is not balanced: debits %s, credits %s", debit, credit))
}
