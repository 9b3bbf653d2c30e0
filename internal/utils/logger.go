package utils

import (
	"log"
	"strings"
)

// LogEvent prints standardized log line with module/action/request_id.
// Avoid logging sensitive payload; message should be summarized.
func LogEvent(requestID, module, action, message string) {
	req := strings.TrimSpace(requestID)
	log.Printf("[%s] action=%s request_id=%s msg=%s", strings.ToUpper(module), action, req, message)
}

// LogWarn is LogEvent with an explicit warning marker, for non-fatal
// failures (dispatch, audit) that must stay visible.
func LogWarn(requestID, module, action, message string) {
	req := strings.TrimSpace(requestID)
	log.Printf("[%s] level=warn action=%s request_id=%s msg=%s", strings.ToUpper(module), action, req, message)
}
