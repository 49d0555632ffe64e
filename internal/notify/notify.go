// Package notify builds finding notifications and hands them to a transport.
//
// Delivery is best-effort by contract: the finding row is the durable source
// of truth, and a failed send is logged without retry and without touching
// the already-committed state.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/zh1gn/FoundItBot/internal/models"

	log "github.com/sirupsen/logrus"
)

// Kind identifies the audience of a message.
type Kind string

// Message kinds.
const (
	// KindFinderAck thanks the finder and confirms the owner was alerted.
	KindFinderAck Kind = "finder_ack"
	// KindOwnerAlert tells the owner their item was found and how to reach
	// the finder.
	KindOwnerAlert Kind = "owner_alert"
	// KindPlanActivated tells a user their plan term started.
	KindPlanActivated Kind = "plan_activated"
)

// Message is a structured notification payload. The transport layer owns the
// user-facing wording; the core only supplies the facts.
type Message struct {
	ChatID int64 // Recipient transport id.
	Kind   Kind  // Message kind.

	Code     string // Item code involved, if any.
	DeepLink string // Scan link for the code, if any.

	FinderID     *int64 // Finder id; nil when unregistered.
	FinderName   string // Finder display name.
	FinderHandle string // Finder handle, may be empty.

	ContactHint string    // Transport-level contact URI for the finder.
	OccurredAt  time.Time // Event timestamp.

	Plan      string    // Plan key for activation messages.
	ExpiresAt time.Time // Term end for activation messages.
}

// Dispatcher delivers a message over some transport.
type Dispatcher interface {
	Send(ctx context.Context, msg Message) error
}

// FindingMessages builds the two payloads produced by a recorded finding:
// the finder acknowledgment and the owner alert.
func FindingMessages(finding models.Finding, deepLink string) (Message, Message) {
	hint := ""
	if finding.FinderID != nil {
		hint = fmt.Sprintf("tg://user?id=%d", *finding.FinderID)
	}

	finderAck := Message{
		Kind:       KindFinderAck,
		Code:       finding.Code,
		DeepLink:   deepLink,
		OccurredAt: finding.FoundAt,
	}
	if finding.FinderID != nil {
		finderAck.ChatID = *finding.FinderID
	}

	ownerAlert := Message{
		ChatID:       finding.OwnerID,
		Kind:         KindOwnerAlert,
		Code:         finding.Code,
		DeepLink:     deepLink,
		FinderID:     finding.FinderID,
		FinderName:   finding.FinderName,
		FinderHandle: finding.FinderHandle,
		ContactHint:  hint,
		OccurredAt:   finding.FoundAt,
	}
	return finderAck, ownerAlert
}

// Deliver attempts each message in order. Failures are logged with the
// message kind and recipient and never propagate; the caller's state is
// already committed.
func Deliver(ctx context.Context, dispatcher Dispatcher, messages ...Message) {
	if dispatcher == nil {
		return
	}
	for _, msg := range messages {
		if msg.ChatID == 0 {
			continue
		}
		if errSend := dispatcher.Send(ctx, msg); errSend != nil {
			log.WithError(errSend).WithFields(log.Fields{
				"kind":    msg.Kind,
				"chat_id": msg.ChatID,
				"code":    msg.Code,
			}).Warn("notification delivery failed")
		}
	}
}

// LogDispatcher is the default transport-less dispatcher: it records every
// payload instead of sending it.
type LogDispatcher struct{}

// Send logs the message and reports success.
func (LogDispatcher) Send(_ context.Context, msg Message) error {
	log.WithFields(log.Fields{
		"kind":    msg.Kind,
		"chat_id": msg.ChatID,
		"code":    msg.Code,
	}).Info("notification")
	return nil
}
