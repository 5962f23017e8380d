package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/raushankrgupta/stylesync/functions"
	"github.com/raushankrgupta/stylesync/metrics"
	"github.com/raushankrgupta/stylesync/utils"
)

type callableRequest struct {
	Data json.RawMessage `json:"data"`
}

type callableError struct {
	Error *functions.Error `json:"error"`
}

// FunctionHandler serves the callable protocol: {"data": ...} in,
// {"result": ...} or {"error": {"code", "message"}} out.
func (h *Handler) FunctionHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer utils.FlushLogMessage(&logMessageBuilder)

	name := r.PathValue("name")
	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("[Function API] %s", name))

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		utils.AddToLogMessage(&logMessageBuilder, "Method not allowed")
		utils.RespondJSON(w, http.StatusMethodNotAllowed, callableError{functions.Errorf(functions.CodeInvalidArgument, "Method not allowed")})
		return
	}
	if h.Functions == nil {
		respondFunctionError(w, functions.Errorf(functions.CodeFailedPrecondition, "Functions are not configured"))
		return
	}

	uid, _ := GetUserIDFromContext(r.Context())

	var req callableRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Invalid request body: %v", err))
		respondFunctionError(w, functions.Errorf(functions.CodeInvalidArgument, "Request body must be {\"data\": ...}"))
		return
	}

	// Metric labels are limited to registered names.
	label := name
	if !h.Functions.Has(name) {
		label = "unknown"
	}

	result, err := h.Functions.Invoke(r.Context(), uid, name, req.Data)
	if err != nil {
		fe := functions.AsError(err)
		metrics.FunctionCalls.WithLabelValues(label, string(fe.Code)).Inc()
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed: %v", fe))
		respondFunctionError(w, fe)
		return
	}

	metrics.FunctionCalls.WithLabelValues(label, "ok").Inc()
	utils.RespondJSON(w, http.StatusOK, map[string]any{"result": result})
}

func respondFunctionError(w http.ResponseWriter, fe *functions.Error) {
	utils.RespondJSON(w, fe.HTTPStatus(), callableError{Error: fe})
}
