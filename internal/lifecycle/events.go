package lifecycle

// Action names the operation an inbound event requests.
type Action string

// Actions accepted by the engine.
const (
	ActionRegister        Action = "register"
	ActionCreateItem      Action = "create_item"
	ActionListItems       Action = "list_items"
	ActionDeleteItem      Action = "delete_item"
	ActionRecordFinding   Action = "record_finding"
	ActionBuyPlan         Action = "buy_plan"
	ActionActivatePlan    Action = "activate_plan"
	ActionPendingPayments Action = "pending_payments"
	ActionSubmitReview    Action = "submit_review"
	ActionQueryStats      Action = "query_stats"
	ActionHistory         Action = "history"
	ActionAchievements    Action = "achievements"
)

// Actor identifies the user behind an inbound event.
type Actor struct {
	ID     int64  // Transport user id.
	Handle string // Public handle, may be empty.
	Name   string // Display name.
}

// Event is the transport-agnostic inbound request. The chat adapter fills
// only the fields its action needs.
type Event struct {
	Actor  Actor
	Action Action

	Code     string // Item code or deep-link start payload.
	Location string // Optional finding location note.

	Plan         string // Plan key for purchase and activation.
	TargetUserID int64  // Activation target for admin actions.

	Rating int    // Review rating.
	Text   string // Review text.
}
