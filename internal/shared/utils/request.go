package utils

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/gin-gonic/gin"
)

// BindLenient decodes a JSON body into v. Missing or malformed bodies
// leave v untouched, callers see the same zero values as an empty
// object. Field-level validation happens after binding.
func BindLenient(c *gin.Context, v interface{}) {
	if c.Request.Body == nil {
		return
	}
	data, err := io.ReadAll(c.Request.Body)
	if err != nil || len(bytes.TrimSpace(data)) == 0 {
		return
	}
	_ = json.Unmarshal(data, v)
}

// RequestID picks the entity id from the body when present, falling
// back to the ?id= query parameter.
func RequestID(c *gin.Context, bodyID string) string {
	if bodyID != "" {
		return bodyID
	}
	return c.Query("id")
}
