package report

import (
	"slices"

	"github.com/lelani/transport-backend/internal/model"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// FilterSort returns the learners that satisfy every filter in cfg, ordered
// by cfg.SortBy. The input slice is left untouched and ties keep their
// input order.
func FilterSort(learners []model.Learner, cfg Config) []model.Learner {
	out := make([]model.Learner, 0, len(learners))
	for i := range learners {
		if matches(&learners[i], cfg) {
			out = append(out, learners[i])
		}
	}

	if cfg.SortBy == SortByTrip {
		slices.SortStableFunc(out, func(a, b model.Learner) int {
			return TripOf(&a) - TripOf(&b)
		})
		return out
	}

	// A collator keeps scratch buffers, so each call gets its own.
	col := collate.New(language.English)
	field := sortField(cfg.SortBy)
	slices.SortStableFunc(out, func(a, b model.Learner) int {
		return col.CompareString(field(&a), field(&b))
	})
	return out
}

// Select applies FilterSort and refuses an empty result.
func Select(learners []model.Learner, cfg Config) ([]model.Learner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	out := FilterSort(learners, cfg)
	if len(out) == 0 {
		return nil, ErrNoLearners
	}
	return out, nil
}

func matches(l *model.Learner, cfg Config) bool {
	if !cfg.IncludeInactive && !l.Active {
		return false
	}
	if cfg.Trip != nil && TripOf(l) != *cfg.Trip {
		return false
	}
	if cfg.PickupArea != "" && l.PickupArea != cfg.PickupArea {
		return false
	}
	if cfg.Class != "" && l.Class != cfg.Class {
		return false
	}
	return true
}

func sortField(key SortKey) func(*model.Learner) string {
	switch key {
	case SortByClass:
		return func(l *model.Learner) string { return l.Class }
	case SortByPickupArea:
		return func(l *model.Learner) string { return l.PickupArea }
	default:
		return func(l *model.Learner) string { return l.Name }
	}
}

// DistinctPickupAreas returns the non-empty pickup areas of learners in
// first-seen order.
func DistinctPickupAreas(learners []model.Learner) []string {
	seen := make(map[string]struct{}, len(learners))
	var out []string
	for i := range learners {
		a := learners[i].PickupArea
		if a == "" {
			continue
		}
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	return out
}
