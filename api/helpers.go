package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/raushankrgupta/stylesync/media"
	"github.com/raushankrgupta/stylesync/metrics"
	"github.com/raushankrgupta/stylesync/utils"
)

// allowMethod writes 405 unless r uses one of methods.
func allowMethod(w http.ResponseWriter, r *http.Request, logMessageBuilder *strings.Builder, methods ...string) bool {
	for _, m := range methods {
		if r.Method == m {
			return true
		}
	}
	w.Header().Set("Allow", strings.Join(methods, ", "))
	utils.RespondError(w, logMessageBuilder, "Method not allowed", http.StatusMethodNotAllowed)
	return false
}

// caller returns the authenticated uid or writes 401.
func caller(w http.ResponseWriter, r *http.Request, logMessageBuilder *strings.Builder) (string, bool) {
	uid, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, logMessageBuilder, "Unauthorized", http.StatusUnauthorized)
		return "", false
	}
	utils.AddToLogMessage(logMessageBuilder, fmt.Sprintf("UserID: %s", uid))
	return uid, true
}

// storeImage decodes an image reference and uploads it to the user's folder.
func (h *Handler) storeImage(ctx context.Context, uid, kind, input string) (*media.Upload, error) {
	data, contentType, err := media.DecodeImage(ctx, input)
	if err != nil {
		metrics.Uploads.WithLabelValues(kind, "invalid").Inc()
		return nil, err
	}
	up, err := h.Media.Upload(ctx, data, contentType, media.Folder(h.MediaRoot, uid, kind))
	if err != nil {
		metrics.Uploads.WithLabelValues(kind, "failed").Inc()
		return nil, err
	}
	metrics.Uploads.WithLabelValues(kind, "ok").Inc()
	return up, nil
}

// ownsPublicID reports whether publicID lives under the user's media folder.
func (h *Handler) ownsPublicID(uid, publicID string) bool {
	return strings.HasPrefix(publicID, media.Folder(h.MediaRoot, uid, "")+"/")
}
