package notification

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Kind classifies what prompted a notification
type Kind string

const (
	KindAssignment Kind = "assignment"
	KindResolution Kind = "resolution"
	KindOverdue    Kind = "overdue"
)

// Notification is a persisted message for an operator or a reporter. Delivery
// to push/email channels is fire-and-forget; the console only reads this
// collection.
type Notification struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	RecipientUID string             `json:"recipient_uid" bson:"recipient_uid"`
	Title        string             `json:"title" bson:"title"`
	Body         string             `json:"body" bson:"body"`
	Kind         Kind               `json:"kind" bson:"kind"`
	ReportID     string             `json:"report_id,omitempty" bson:"report_id,omitempty"`
	Read         bool               `json:"read" bson:"read"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
}
