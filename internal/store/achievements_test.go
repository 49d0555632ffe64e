package store

import (
	"context"
	"testing"
)

func TestUnlockAchievementOnce(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	mustCreateUser(t, st, 1)

	unlocked, errFirst := st.UnlockAchievement(ctx, 1, "first_item")
	if errFirst != nil {
		t.Fatalf("first unlock: %v", errFirst)
	}
	if !unlocked {
		t.Fatalf("expected unlocked=true on first call")
	}

	unlocked, errSecond := st.UnlockAchievement(ctx, 1, "first_item")
	if errSecond != nil {
		t.Fatalf("second unlock: %v", errSecond)
	}
	if unlocked {
		t.Fatalf("repeat unlock must report false")
	}

	achievements, errList := st.UserAchievements(ctx, 1)
	if errList != nil {
		t.Fatalf("list: %v", errList)
	}
	if len(achievements) != 1 || achievements[0].Key != "first_item" {
		t.Fatalf("expected a single first_item row, got %+v", achievements)
	}
}

func TestUnlockAchievementPerUser(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	mustCreateUser(t, st, 1)
	mustCreateUser(t, st, 2)

	if _, errA := st.UnlockAchievement(ctx, 1, "helper_1"); errA != nil {
		t.Fatalf("unlock for 1: %v", errA)
	}
	unlocked, errB := st.UnlockAchievement(ctx, 2, "helper_1")
	if errB != nil {
		t.Fatalf("unlock for 2: %v", errB)
	}
	if !unlocked {
		t.Fatalf("same key must unlock independently per user")
	}
}
