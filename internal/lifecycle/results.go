package lifecycle

import (
	"time"

	"github.com/zh1gn/FoundItBot/internal/models"
	"github.com/zh1gn/FoundItBot/internal/notify"
	"github.com/zh1gn/FoundItBot/internal/store"
)

// Result is the structured outcome of an engine operation. The presentation
// layer formats it; the engine never renders user-facing text.
type Result interface {
	isResult()
}

// Registered reports a register outcome.
type Registered struct {
	New bool // False when the id was already registered.
}

// ItemCreated reports a freshly minted item.
type ItemCreated struct {
	Code      string
	DeepLink  string
	ExpiresAt *time.Time
}

// ExistingItem reports the idempotent re-ask outcome: the entitlement was
// already used, so its live item is returned instead of a new one.
type ExistingItem struct {
	Code      string
	DeepLink  string
	ExpiresAt *time.Time
}

// EntitlementMissing reports a create attempt without an active subscription.
type EntitlementMissing struct{}

// DuplicateCode reports exhausted code-generation retries.
type DuplicateCode struct{}

// ItemList reports a user's active items.
type ItemList struct {
	Items []models.Item
}

// Deleted reports a delete attempt. OK is false on ownership mismatch or a
// missing row, without distinguishing the two.
type Deleted struct {
	OK   bool
	Code string
}

// NotFound reports a code that resolves to no active item.
type NotFound struct {
	Code string
}

// SelfFind reports an owner scanning their own item: acknowledged, nothing
// recorded.
type SelfFind struct {
	Code string
}

// FindingRecorded reports a committed finding plus the notification payloads
// produced for it.
type FindingRecorded struct {
	Code       string
	OwnerID    int64
	FinderID   *int64
	FinderAck  notify.Message
	OwnerAlert notify.Message
}

// PaymentQueued reports an enqueued manual payment awaiting admin review.
type PaymentQueued struct {
	Plan           string
	PaymentDetails string
}

// PlanActivated reports an admin activation.
type PlanActivated struct {
	UserID    int64
	Plan      string
	ExpiresAt time.Time
}

// PendingList reports the admin payment worklist.
type PendingList struct {
	Payments []models.PendingPayment
}

// ReviewAccepted reports a stored review.
type ReviewAccepted struct {
	Rating int
}

// Stats reports on-demand service aggregates.
type Stats struct {
	Statistics store.Statistics
}

// History reports a user's finding history from both sides.
type History struct {
	AsOwner  []models.Finding
	AsFinder []models.Finding
}

// AchievementList reports a user's unlocks.
type AchievementList struct {
	Achievements []models.Achievement
}

// ValidationError reports malformed input rejected before the store.
type ValidationError struct {
	Field  string
	Reason string
}

// Unauthorized reports a privileged action from a non-admin actor.
type Unauthorized struct{}

func (Registered) isResult()         {}
func (ItemCreated) isResult()        {}
func (ExistingItem) isResult()       {}
func (EntitlementMissing) isResult() {}
func (DuplicateCode) isResult()      {}
func (ItemList) isResult()           {}
func (Deleted) isResult()            {}
func (NotFound) isResult()           {}
func (SelfFind) isResult()           {}
func (FindingRecorded) isResult()    {}
func (PaymentQueued) isResult()      {}
func (PlanActivated) isResult()      {}
func (PendingList) isResult()        {}
func (ReviewAccepted) isResult()     {}
func (Stats) isResult()              {}
func (History) isResult()            {}
func (AchievementList) isResult()    {}
func (ValidationError) isResult()    {}
func (Unauthorized) isResult()       {}
