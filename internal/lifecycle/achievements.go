package lifecycle

import (
	"context"

	"github.com/zh1gn/FoundItBot/internal/models"

	log "github.com/sirupsen/logrus"
)

// Achievement keys. Stored in the achievements table; unlocks never repeat.
const (
	AchievementFirstItem  = "first_item"
	AchievementCollector5 = "collector_5"
	AchievementFirstFound = "first_found"
	AchievementHelper1    = "helper_1"
	AchievementHelper3    = "helper_3"
	AchievementFamous10   = "famous_10"
)

type threshold struct {
	key   string
	count func(models.User) int
	need  int
}

var thresholds = []threshold{
	{AchievementFirstItem, func(u models.User) int { return u.TotalItems }, 1},
	{AchievementCollector5, func(u models.User) int { return u.TotalItems }, 5},
	{AchievementFirstFound, func(u models.User) int { return u.TotalFound }, 1},
	{AchievementFamous10, func(u models.User) int { return u.TotalFound }, 10},
	{AchievementHelper1, func(u models.User) int { return u.TimesHelped }, 1},
	{AchievementHelper3, func(u models.User) int { return u.TimesHelped }, 3},
}

// unlockNewly re-reads the user's counters and unlocks any thresholds they
// now satisfy. Failures are logged and never surfaced to the caller; an
// achievement missed here unlocks on the next qualifying action.
func (e *Engine) unlockNewly(ctx context.Context, userID int64) {
	user, errUser := e.store.GetUser(ctx, userID)
	if errUser != nil {
		log.WithError(errUser).WithField("user_id", userID).Warn("achievement check failed")
		return
	}
	if user == nil {
		return
	}
	for _, t := range thresholds {
		if t.count(*user) < t.need {
			continue
		}
		unlocked, errUnlock := e.store.UnlockAchievement(ctx, userID, t.key)
		if errUnlock != nil {
			log.WithError(errUnlock).WithFields(log.Fields{
				"user_id": userID,
				"key":     t.key,
			}).Warn("achievement unlock failed")
			continue
		}
		if unlocked {
			log.WithFields(log.Fields{"user_id": userID, "key": t.key}).Info("achievement unlocked")
		}
	}
}
