package progress

import (
	"fmt"

	"github.com/yigit/gradplanner/internal/app/models"
)

// ComputeStats aggregates the records against a curriculum.
// Records count toward the category stored on the record, not the
// curriculum's classification of the code.
func ComputeStats(records []models.CourseRecord, curriculum models.CurriculumDefinition) models.Stats {
	stats := models.Stats{
		CurriculumID: curriculum.ID,
		TargetTotal:  curriculum.TotalCredits(),
	}

	for _, r := range records {
		switch r.Status {
		case models.StatusCompleted:
			stats.CompletedByCategory.Add(r.Category, r.Credits)
			stats.RawCompletedTotal += r.Credits
		case models.StatusPlanned:
			stats.PlannedByCategory.Add(r.Category, r.Credits)
			stats.RawPlannedTotal += r.Credits
		}
	}

	for _, category := range models.Categories {
		done := stats.CompletedByCategory.Get(category)
		target := curriculum.Target(category)
		effective, surplus := capCredits(done, target)
		stats.EffectiveByCategory.Add(category, effective)
		stats.SurplusByCategory.Add(category, surplus)
	}
	stats.EffectiveCompletedTotal = stats.EffectiveByCategory.Total()

	stats.PercentByCategory = models.CategoryPercent{
		Required: percent(stats.EffectiveByCategory.Required, curriculum.RequiredCredits),
		Limited:  percent(stats.EffectiveByCategory.Limited, curriculum.LimitedCredits),
		Free:     percent(stats.EffectiveByCategory.Free, curriculum.FreeCredits),
	}
	stats.OverallPercent = percent(stats.EffectiveCompletedTotal, stats.TargetTotal)

	stats.RemainingRequired = remaining(stats.CompletedByCategory.Required, curriculum.RequiredCredits)
	stats.RemainingLimited = remaining(stats.CompletedByCategory.Limited, curriculum.LimitedCredits)
	stats.Recommendations = Recommend(stats.CompletedByCategory, curriculum)

	return stats
}

// Recommend derives the progress signals from completed credits.
// At most one limited-axis and one free-axis signal are returned; when
// neither fires a single on-track signal is returned instead.
func Recommend(completed models.CategoryCredits, curriculum models.CurriculumDefinition) []models.Recommendation {
	recs := []models.Recommendation{}

	if completed.Limited < curriculum.LimitedCredits {
		deficit := curriculum.LimitedCredits - completed.Limited
		recs = append(recs, models.Recommendation{
			Kind:    models.RecommendationNeedLimited,
			Amount:  deficit,
			Message: fmt.Sprintf("Plan %d more limited credits", deficit),
		})
	}

	switch {
	case completed.Free > curriculum.FreeCredits:
		surplus := completed.Free - curriculum.FreeCredits
		recs = append(recs, models.Recommendation{
			Kind:    models.RecommendationExcessFree,
			Amount:  surplus,
			Message: fmt.Sprintf("%d free credits above the target do not count toward the degree", surplus),
		})
	case completed.Free < curriculum.FreeCredits:
		deficit := curriculum.FreeCredits - completed.Free
		recs = append(recs, models.Recommendation{
			Kind:    models.RecommendationNeedFree,
			Amount:  deficit,
			Message: fmt.Sprintf("Add %d more free credits", deficit),
		})
	}

	if len(recs) == 0 {
		recs = append(recs, models.Recommendation{
			Kind:    models.RecommendationOnTrack,
			Message: "Limited and free credits are on track",
		})
	}
	return recs
}

// capCredits splits a category sum into the part that counts and the surplus
func capCredits(sum, target int) (effective, surplus int) {
	if target < 0 {
		target = 0
	}
	if sum <= target {
		return sum, 0
	}
	return target, sum - target
}

// percent returns value/total as a percentage clamped to [0, 100]; a zero total yields 0
func percent(value, total int) float64 {
	if total <= 0 {
		return 0
	}
	p := float64(value) / float64(total) * 100
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

func remaining(done, target int) int {
	if done >= target {
		return 0
	}
	return target - done
}
