package cache

import (
	"context"
	"fmt"
	"log/slog"
)

// SafeInvalidatePattern safely invalidates cache pattern with logging
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// SafeDelete safely deletes cache keys with logging
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

// InvalidateQuestionnaireCache invalidates all caches touched by a
// questionnaire change. Submissions reference the questionnaire live, so
// their cached snapshots go too.
func InvalidateQuestionnaireCache(ctx context.Context, cm *CacheManager, questionnaireID string) {
	SafeDelete(ctx, cm.Questionnaire, fmt.Sprintf("id:%s", questionnaireID))
	SafeInvalidatePattern(ctx, cm.Questionnaire, "list:*")
	SafeInvalidatePattern(ctx, cm.Submission, fmt.Sprintf("questionnaire:%s:*", questionnaireID))
}

// InvalidateSubmissionCache invalidates submission caches after intake
func InvalidateSubmissionCache(ctx context.Context, cm *CacheManager, submissionID, clientID string) {
	SafeDelete(ctx, cm.Submission, fmt.Sprintf("id:%s", submissionID))
	SafeInvalidatePattern(ctx, cm.Submission, fmt.Sprintf("client:%s:*", clientID))
	SafeInvalidatePattern(ctx, cm.Submission, "list:*")
}

// InvalidateClientCache invalidates client caches after a profile change
func InvalidateClientCache(ctx context.Context, cm *CacheManager, clientID string) {
	SafeDelete(ctx, cm.Client, fmt.Sprintf("id:%s", clientID))
	SafeInvalidatePattern(ctx, cm.Client, "list:*")
	SafeInvalidatePattern(ctx, cm.Submission, fmt.Sprintf("client:%s:*", clientID))
}
