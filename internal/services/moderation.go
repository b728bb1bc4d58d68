package services

import (
	"fmt"

	"parishlink/internal/models"
	"parishlink/internal/services/dto"
)

// ModerationAction is a transition request against the shared
// pending/approved/rejected lifecycle used by profiles, both job boards
// and member accounts.
type ModerationAction string

const (
	ActionApprove ModerationAction = "approve"
	ActionReject  ModerationAction = "reject"
	// ActionResubmit is the edit-triggers-re-review rule: any content
	// update forces the record back into the moderation queue, whatever
	// its prior state.
	ActionResubmit ModerationAction = "resubmit"
)

// DefaultRejectionReason is stored when a moderator rejects without
// giving one.
const DefaultRejectionReason = "Does not meet community guidelines"

// ApplyModeration computes the next lifecycle state. Approve and reject
// are accepted from any state, which makes repeated rejections
// idempotent in their final state (each call still fans out its own
// notification; that is documented behavior, not deduplicated).
func ApplyModeration(current models.ApprovalStatus, action ModerationAction) (models.ApprovalStatus, error) {
	if !models.ValidApprovalStatus(current) {
		return current, fmt.Errorf("unknown approval status %q", current)
	}

	switch action {
	case ActionApprove:
		return models.ApprovalStatusApproved, nil
	case ActionReject:
		return models.ApprovalStatusRejected, nil
	case ActionResubmit:
		return models.ApprovalStatusPending, nil
	default:
		return current, fmt.Errorf("unknown moderation action %q", action)
	}
}

// RejectionReasonOrDefault normalizes the optional reason string.
func RejectionReasonOrDefault(reason string) string {
	if reason == "" {
		return DefaultRejectionReason
	}
	return reason
}

// applyBulk runs a single-item moderation function independently per
// id. One bad id never aborts the batch; the result slice always has
// one entry per input id, in order.
func applyBulk(ids []string, apply func(id string) error) []dto.BulkResult {
	results := make([]dto.BulkResult, 0, len(ids))
	for _, id := range ids {
		if err := apply(id); err != nil {
			results = append(results, dto.BulkResult{ID: id, Success: false, Error: err.Error()})
			continue
		}
		results = append(results, dto.BulkResult{ID: id, Success: true})
	}
	return results
}
