package engine

import (
	"sort"

	"github.com/loyaltyhub/rewardmart/internal/domain/model"
)

// ResolveTier maps a points balance to the highest tier whose MinPoints the
// balance reaches, or nil when no rule matches. Tiers are not sticky: the
// result depends on the balance alone, so a customer who redeems below a
// threshold is demoted by the very next resolution.
func ResolveTier(balance int64, rules []model.TierRule) *string {
	sorted := make([]model.TierRule, len(rules))
	copy(sorted, rules)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].MinPoints > sorted[j].MinPoints })

	for _, rule := range sorted {
		if balance >= rule.MinPoints {
			name := rule.TierName
			return &name
		}
	}
	return nil
}
