package automation

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HookScript is an operator-authored script bound to one approval event
// type. Scripts run after commit with the event exposed as globals; their
// output is logged, never fed back into the workflow.
type HookScript struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	EventType string             `bson:"event_type" json:"event_type"`
	Source    string             `bson:"source" json:"source"`
	Enabled   bool               `bson:"enabled" json:"enabled"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}
