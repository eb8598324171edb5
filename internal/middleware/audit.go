package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/fes-crm/clientgate/internal/model"
	"github.com/fes-crm/clientgate/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const ContextAuditLog = "audit_log"

// ContextPrincipalKey holds the caller identity the identity layer in
// front of us asserts via X-Principal.
const ContextPrincipalKey = "principal"

const HeaderPrincipal = "X-Principal"

// PrincipalMiddleware lifts the asserted caller identity into the gin
// context. An empty header stays empty; the authorization gate decides
// what that means per route.
func PrincipalMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextPrincipalKey, c.GetHeader(HeaderPrincipal))
		c.Next()
	}
}

// Principal returns the caller identity set by PrincipalMiddleware.
func Principal(c *gin.Context) string {
	return c.GetString(ContextPrincipalKey)
}

func AuditMiddleware(auditSvc *service.AuditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		reqID := uuid.New().String()
		c.Header("X-Request-ID", reqID)

		// Read the body up front and put it back for the handler's Bind.
		var reqBodyBytes []byte
		if c.Request.Body != nil {
			reqBodyBytes, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(reqBodyBytes))
		}

		auditEntry := &model.AuditLog{
			ID:        reqID,
			Method:    c.Request.Method,
			Path:      c.Request.URL.Path,
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
			CreatedAt: start,
			Context:   make(map[string]interface{}),
		}
		c.Set(ContextAuditLog, auditEntry)

		c.Next()

		auditEntry.Principal = Principal(c)
		auditEntry.RequestBody = redactAuditBody(c.Request.URL.Path, reqBodyBytes)
		auditEntry.StatusCode = c.Writer.Status()
		auditEntry.LatencyMs = time.Since(start).Milliseconds()

		auditSvc.Log(auditEntry)
	}
}

// AddAuditContext lets handlers attach business detail to the request's
// audit record, e.g. the client id touched.
func AddAuditContext(c *gin.Context, key string, value interface{}) {
	if val, exists := c.Get(ContextAuditLog); exists {
		if entry, ok := val.(*model.AuditLog); ok {
			entry.Context[key] = value
		}
	}
}

func redactAuditBody(path string, body []byte) string {
	if len(body) == 0 {
		return ""
	}
	if !isSensitivePath(path) {
		return string(body)
	}
	redacted, ok := redactJSON(body)
	if !ok {
		return "[redacted]"
	}
	return string(redacted)
}

// Client profile payloads carry identity-document and tax identifiers;
// those must not end up verbatim in the audit trail.
func isSensitivePath(path string) bool {
	switch {
	case strings.HasPrefix(path, "/v1/clients"):
		return true
	case strings.HasPrefix(path, "/v1/profile"):
		return true
	default:
		return false
	}
}

func redactJSON(body []byte) ([]byte, bool) {
	var data interface{}
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, false
	}
	redactValue(&data)
	out, err := json.Marshal(data)
	if err != nil {
		return nil, false
	}
	return out, true
}

func redactValue(v *interface{}) {
	switch raw := (*v).(type) {
	case map[string]interface{}:
		for key, val := range raw {
			if isSensitiveKey(key) {
				raw[key] = "***"
				continue
			}
			vv := val
			redactValue(&vv)
			raw[key] = vv
		}
	case []interface{}:
		for i, val := range raw {
			vv := val
			redactValue(&vv)
			raw[i] = vv
		}
	}
}

func isSensitiveKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "passportnumber",
		"passport_number",
		"tin",
		"dob",
		"dateofbirth",
		"date_of_birth",
		"placeofbirth",
		"place_of_birth":
		return true
	default:
		return false
	}
}
