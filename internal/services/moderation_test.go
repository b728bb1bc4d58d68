package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parishlink/internal/models"
)

func TestApplyModeration_Approve(t *testing.T) {
	for _, current := range []models.ApprovalStatus{
		models.ApprovalStatusPending,
		models.ApprovalStatusApproved,
		models.ApprovalStatusRejected,
	} {
		next, err := ApplyModeration(current, ActionApprove)
		require.NoError(t, err)
		assert.Equal(t, models.ApprovalStatusApproved, next)
	}
}

func TestApplyModeration_RejectIsIdempotentInState(t *testing.T) {
	next, err := ApplyModeration(models.ApprovalStatusPending, ActionReject)
	require.NoError(t, err)
	assert.Equal(t, models.ApprovalStatusRejected, next)

	again, err := ApplyModeration(next, ActionReject)
	require.NoError(t, err)
	assert.Equal(t, next, again)
}

func TestApplyModeration_ResubmitAlwaysReturnsToPending(t *testing.T) {
	for _, current := range []models.ApprovalStatus{
		models.ApprovalStatusPending,
		models.ApprovalStatusApproved,
		models.ApprovalStatusRejected,
	} {
		next, err := ApplyModeration(current, ActionResubmit)
		require.NoError(t, err)
		assert.Equal(t, models.ApprovalStatusPending, next)
	}
}

func TestApplyModeration_UnknownInputs(t *testing.T) {
	_, err := ApplyModeration(models.ApprovalStatus("limbo"), ActionApprove)
	assert.Error(t, err)

	_, err = ApplyModeration(models.ApprovalStatusPending, ModerationAction("promote"))
	assert.Error(t, err)
}

func TestRejectionReasonOrDefault(t *testing.T) {
	assert.Equal(t, DefaultRejectionReason, RejectionReasonOrDefault(""))
	assert.Equal(t, "incomplete profile", RejectionReasonOrDefault("incomplete profile"))
}

func TestApplyBulk_PartialFailure(t *testing.T) {
	results := applyBulk([]string{"a", "b", "c"}, func(id string) error {
		if id == "b" {
			return assert.AnError
		}
		return nil
	})

	require.Len(t, results, 3)
	assert.True(t, results[0].Success)
	assert.False(t, results[1].Success)
	assert.NotEmpty(t, results[1].Error)
	assert.True(t, results[2].Success)
	assert.Equal(t, "b", results[1].ID)
}
