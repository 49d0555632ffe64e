// Package lifecycle holds the business rules of the service: entitlement
// gating on item creation, lazy expiry, the self-find short circuit, finding
// counters, and the admin activation flow.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zh1gn/FoundItBot/internal/config"
	"github.com/zh1gn/FoundItBot/internal/models"
	"github.com/zh1gn/FoundItBot/internal/notify"
	"github.com/zh1gn/FoundItBot/internal/qr"
	"github.com/zh1gn/FoundItBot/internal/store"

	log "github.com/sirupsen/logrus"
)

// Engine validates inbound events against store state, mutates the store
// transactionally, and emits structured results plus notification jobs.
// Methods are safe for concurrent callers.
type Engine struct {
	store      *store.Store
	cfg        config.Config
	dispatcher notify.Dispatcher
}

// New constructs an Engine. A nil dispatcher disables notification delivery
// while keeping payload construction intact.
func New(st *store.Store, cfg config.Config, dispatcher notify.Dispatcher) *Engine {
	return &Engine{store: st, cfg: cfg, dispatcher: dispatcher}
}

// Handle routes an inbound event to its operation.
func (e *Engine) Handle(ctx context.Context, event Event) (Result, error) {
	switch event.Action {
	case ActionRegister:
		return e.Register(ctx, event.Actor)
	case ActionCreateItem:
		return e.CreateItem(ctx, event.Actor)
	case ActionListItems:
		return e.ListItems(ctx, event.Actor)
	case ActionDeleteItem:
		return e.DeleteItem(ctx, event.Actor, event.Code)
	case ActionRecordFinding:
		return e.RecordFinding(ctx, event.Actor, event.Code, event.Location)
	case ActionBuyPlan:
		return e.BuyPlan(ctx, event.Actor, event.Plan)
	case ActionActivatePlan:
		return e.ActivatePlan(ctx, event.Actor, event.TargetUserID, event.Plan)
	case ActionPendingPayments:
		return e.PendingPayments(ctx, event.Actor)
	case ActionSubmitReview:
		return e.SubmitReview(ctx, event.Actor, event.Rating, event.Text)
	case ActionQueryStats:
		return e.QueryStats(ctx)
	case ActionHistory:
		return e.FindingHistory(ctx, event.Actor)
	case ActionAchievements:
		return e.Achievements(ctx, event.Actor)
	default:
		return ValidationError{Field: "action", Reason: fmt.Sprintf("unknown action %q", event.Action)}, nil
	}
}

// Register creates the actor's account on first contact. Re-registration is
// a no-op reported as New=false.
func (e *Engine) Register(ctx context.Context, actor Actor) (Result, error) {
	created, errCreate := e.store.CreateUser(ctx, actor.ID, actor.Handle, actor.Name)
	if errCreate != nil {
		return nil, errCreate
	}
	return Registered{New: created}, nil
}

// CreateItem mints the one item the actor's subscription term entitles them
// to. A second ask against the same unexpired term returns the existing item
// instead of a duplicate.
func (e *Engine) CreateItem(ctx context.Context, actor Actor) (Result, error) {
	if _, errRegister := e.store.CreateUser(ctx, actor.ID, actor.Handle, actor.Name); errRegister != nil {
		return nil, errRegister
	}

	item, claimed, errClaim := e.store.ClaimEntitlement(ctx, actor.ID)
	if errClaim != nil {
		if errors.Is(errClaim, store.ErrDuplicateCode) {
			log.WithField("user_id", actor.ID).Warn("code generation exhausted retries")
			return DuplicateCode{}, nil
		}
		return nil, errClaim
	}
	if item == nil {
		return EntitlementMissing{}, nil
	}

	link := qr.DeepLink(e.cfg.LinkDomain, e.cfg.BotUsername, item.Code)
	if !claimed {
		return ExistingItem{Code: item.Code, DeepLink: link, ExpiresAt: item.ExpiresAt}, nil
	}

	e.unlockNewly(ctx, actor.ID)
	return ItemCreated{Code: item.Code, DeepLink: link, ExpiresAt: item.ExpiresAt}, nil
}

// ListItems returns the actor's active items.
func (e *Engine) ListItems(ctx context.Context, actor Actor) (Result, error) {
	items, errList := e.store.UserItems(ctx, actor.ID)
	if errList != nil {
		return nil, errList
	}
	return ItemList{Items: items}, nil
}

// DeleteItem soft-deletes an item the actor owns. Ownership mismatch and a
// missing code are the same negative answer.
func (e *Engine) DeleteItem(ctx context.Context, actor Actor, code string) (Result, error) {
	normalized := qr.NormalizeCode(code)
	if !qr.ValidCode(normalized) {
		return ValidationError{Field: "code", Reason: "malformed item code"}, nil
	}
	ok, errDelete := e.store.DeleteItem(ctx, normalized, actor.ID)
	if errDelete != nil {
		return nil, errDelete
	}
	return Deleted{OK: ok, Code: normalized}, nil
}

// RecordFinding resolves a scanned code or deep-link payload to an item and
// records the finding. The finder is auto-registered, the owner scanning
// their own code short-circuits to an acknowledgment, and notification
// delivery starts only after the finding has committed.
func (e *Engine) RecordFinding(ctx context.Context, actor Actor, rawCode, location string) (Result, error) {
	code := qr.NormalizeCode(rawCode)
	if parsed, ok := qr.ParseStartPayload(rawCode); ok {
		code = parsed
	}
	if !qr.ValidCode(code) {
		return ValidationError{Field: "code", Reason: "malformed item code"}, nil
	}

	if _, errRegister := e.store.CreateUser(ctx, actor.ID, actor.Handle, actor.Name); errRegister != nil {
		return nil, errRegister
	}

	item, errItem := e.store.ItemByCode(ctx, code)
	if errItem != nil {
		return nil, errItem
	}
	if item == nil || item.Expired(time.Now().UTC()) {
		return NotFound{Code: code}, nil
	}
	if item.UserID == actor.ID {
		return SelfFind{Code: code}, nil
	}

	finderID := actor.ID
	finding := models.Finding{
		Code:         code,
		OwnerID:      item.UserID,
		FinderID:     &finderID,
		FinderName:   actor.Name,
		FinderHandle: actor.Handle,
		Location:     location,
		Status:       models.FindingStatusPending,
		FoundAt:      time.Now().UTC(),
	}
	if errCreate := e.store.CreateFinding(ctx, &finding); errCreate != nil {
		log.WithError(errCreate).WithFields(log.Fields{
			"code":     code,
			"owner_id": item.UserID,
		}).Error("record finding failed")
		return nil, errCreate
	}

	link := qr.DeepLink(e.cfg.LinkDomain, e.cfg.BotUsername, code)
	finderAck, ownerAlert := notify.FindingMessages(finding, link)
	notify.Deliver(ctx, e.dispatcher, finderAck, ownerAlert)

	e.unlockNewly(ctx, actor.ID)
	e.unlockNewly(ctx, item.UserID)

	return FindingRecorded{
		Code:       code,
		OwnerID:    item.UserID,
		FinderID:   finding.FinderID,
		FinderAck:  finderAck,
		OwnerAlert: ownerAlert,
	}, nil
}

// BuyPlan records a manual-payment report. Activation always goes through an
// administrator; this never grants an entitlement.
func (e *Engine) BuyPlan(ctx context.Context, actor Actor, plan string) (Result, error) {
	if _, ok := e.cfg.Plans[plan]; !ok {
		return ValidationError{Field: "plan", Reason: fmt.Sprintf("unknown plan %q", plan)}, nil
	}
	if _, errRegister := e.store.CreateUser(ctx, actor.ID, actor.Handle, actor.Name); errRegister != nil {
		return nil, errRegister
	}
	if errQueue := e.store.AddPendingPayment(ctx, actor.ID, plan); errQueue != nil {
		return nil, errQueue
	}
	return PaymentQueued{Plan: plan, PaymentDetails: e.cfg.PaymentDetails}, nil
}

// ActivatePlan starts a subscription term for a user and consumes the
// matching pending payments. Admin-only by exact id match.
func (e *Engine) ActivatePlan(ctx context.Context, actor Actor, targetUserID int64, planKey string) (Result, error) {
	if !e.isAdmin(actor.ID) {
		return Unauthorized{}, nil
	}
	plan, ok := e.cfg.Plans[planKey]
	if !ok {
		return ValidationError{Field: "plan", Reason: fmt.Sprintf("unknown plan %q", planKey)}, nil
	}

	exists, errExists := e.store.UserExists(ctx, targetUserID)
	if errExists != nil {
		return nil, errExists
	}
	if !exists {
		return ValidationError{Field: "user_id", Reason: fmt.Sprintf("user %d not registered", targetUserID)}, nil
	}

	sub, errCreate := e.store.CreateSubscription(ctx, targetUserID, planKey, plan.Days)
	if errCreate != nil {
		return nil, errCreate
	}
	if errConsume := e.store.ConsumePendingPayments(ctx, targetUserID, planKey); errConsume != nil {
		log.WithError(errConsume).WithField("user_id", targetUserID).Warn("consume pending payments failed")
	}

	notify.Deliver(ctx, e.dispatcher, notify.Message{
		ChatID:    targetUserID,
		Kind:      notify.KindPlanActivated,
		Plan:      planKey,
		ExpiresAt: sub.ExpiresAt,
	})

	return PlanActivated{UserID: targetUserID, Plan: planKey, ExpiresAt: sub.ExpiresAt}, nil
}

// PendingPayments lists the admin worklist. Admin-only by exact id match.
func (e *Engine) PendingPayments(ctx context.Context, actor Actor) (Result, error) {
	if !e.isAdmin(actor.ID) {
		return Unauthorized{}, nil
	}
	payments, errList := e.store.PendingPayments(ctx)
	if errList != nil {
		return nil, errList
	}
	return PendingList{Payments: payments}, nil
}

// SubmitReview stores a rating with optional text. Out-of-range ratings are
// rejected before the store is touched; empty text is allowed.
func (e *Engine) SubmitReview(ctx context.Context, actor Actor, rating int, text string) (Result, error) {
	if rating < 1 || rating > 5 {
		return ValidationError{Field: "rating", Reason: "rating must be between 1 and 5"}, nil
	}
	if errAdd := e.store.AddReview(ctx, actor.ID, actor.Name, rating, text); errAdd != nil {
		return nil, errAdd
	}
	return ReviewAccepted{Rating: rating}, nil
}

// QueryStats computes service aggregates on demand.
func (e *Engine) QueryStats(ctx context.Context) (Result, error) {
	stats, errStats := e.store.Statistics(ctx)
	if errStats != nil {
		return nil, errStats
	}
	return Stats{Statistics: stats}, nil
}

// FindingHistory returns the actor's recent findings from both sides.
func (e *Engine) FindingHistory(ctx context.Context, actor Actor) (Result, error) {
	asOwner, errOwner := e.store.UserFindings(ctx, actor.ID, true)
	if errOwner != nil {
		return nil, errOwner
	}
	asFinder, errFinder := e.store.UserFindings(ctx, actor.ID, false)
	if errFinder != nil {
		return nil, errFinder
	}
	return History{AsOwner: asOwner, AsFinder: asFinder}, nil
}

// Achievements lists the actor's unlocks.
func (e *Engine) Achievements(ctx context.Context, actor Actor) (Result, error) {
	achievements, errList := e.store.UserAchievements(ctx, actor.ID)
	if errList != nil {
		return nil, errList
	}
	return AchievementList{Achievements: achievements}, nil
}

// isAdmin reports whether the id matches the configured administrator.
// A zero configured id disables admin actions entirely.
func (e *Engine) isAdmin(id int64) bool {
	return e.cfg.AdminID != 0 && id == e.cfg.AdminID
}
