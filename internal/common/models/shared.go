package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ContextKey string

// Elevated role names. Membership in any of these grants the approval
// admin override (see the approval policy).
const (
	RoleTopAdmin    = "top_admin"
	RoleBranchAdmin = "branch_admin"
	RoleHR          = "hr"
)

type AuditAction string

const (
	AuditActionCreate   AuditAction = "CREATE"
	AuditActionSubmit   AuditAction = "SUBMIT"
	AuditActionApproval AuditAction = "APPROVAL"
	AuditActionLogin    AuditAction = "LOGIN"
	AuditActionCron     AuditAction = "CRON"
)

type Change struct {
	Old interface{} `bson:"old" json:"old"`
	New interface{} `bson:"new" json:"new"`
}

// AuditLog is one append-only audit trail entry.
type AuditLog struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Action      AuditAction        `bson:"action" json:"action"`
	RequestKind string             `bson:"request_kind" json:"request_kind"`
	RequestID   uint               `bson:"request_id" json:"request_id"`
	Level       int                `bson:"level,omitempty" json:"level,omitempty"`
	ActorID     uint               `bson:"actor_id" json:"actor_id"`
	ActorName   string             `bson:"actor_name,omitempty" json:"actor_name,omitempty"`
	Changes     map[string]Change  `bson:"changes,omitempty" json:"changes,omitempty"`
	Timestamp   time.Time          `bson:"timestamp" json:"timestamp"`
}

// Log is the document shape written by the async zap sink.
type Log struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	AppId        string             `bson:"app_id"`
	Message      string             `bson:"message"`
	IpAddress    string             `bson:"ip_address,omitempty"`
	ActorID      uint               `bson:"actor_id,omitempty"`
	Caller       string             `bson:"caller,omitempty"`
	LogLevelId   int                `bson:"log_level_id"`
	CreatedOnUtc time.Time          `bson:"created_on_utc"`
}
