package model

import (
	"time"
)

// AuditLog is one fully processed request audit record.
type AuditLog struct {
	ID        string `json:"id" gorm:"primaryKey"` // request UUID
	Principal string `json:"principal" gorm:"index:idx_audit_principal"`
	Method    string `json:"method"`
	Path      string `json:"path"`
	IP        string `json:"ip"`
	UserAgent string `json:"user_agent"`

	RequestBody string `json:"request_body"`

	StatusCode int   `json:"status_code"`
	LatencyMs  int64 `json:"latency_ms"`

	// Context carries business-level detail the handlers attach, e.g. the
	// client id touched, the mutation performed, or the upstream error.
	Context map[string]interface{} `json:"context" gorm:"serializer:json"`

	CreatedAt time.Time `json:"created_at" gorm:"index:idx_audit_principal"`
}

func (AuditLog) TableName() string { return "audit_logs" }
