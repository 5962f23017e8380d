package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/raushankrgupta/stylesync/models"
	"github.com/raushankrgupta/stylesync/notify"
	"github.com/raushankrgupta/stylesync/store"
	"github.com/raushankrgupta/stylesync/utils"
)

type SendFriendRequest struct {
	ReceiverID string `json:"receiverId"`
}

// FriendRequestsHandler sends a request (POST) or lists the caller's
// incoming pending requests (GET). Acceptance is the acceptFriendRequest function.
func (h *Handler) FriendRequestsHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer utils.FlushLogMessage(&logMessageBuilder)
	utils.AddToLogMessage(&logMessageBuilder, "[Friend Requests API]")

	if !allowMethod(w, r, &logMessageBuilder, http.MethodGet, http.MethodPost) {
		return
	}
	uid, ok := caller(w, r, &logMessageBuilder)
	if !ok {
		return
	}

	if r.Method == http.MethodGet {
		requests := []models.FriendRequest{}
		q := store.Query{
			Where:   map[string]any{"receiverId": uid, "status": models.FriendRequestPending},
			OrderBy: "createdAt",
			Desc:    true,
		}
		if err := h.Store.List(r.Context(), store.FriendRequests, q, &requests); err != nil {
			utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Database error: %v", err))
			utils.RespondError(w, &logMessageBuilder, "Failed to load friend requests", http.StatusInternalServerError)
			return
		}
		utils.RespondJSON(w, http.StatusOK, map[string]any{"requests": requests})
		return
	}

	var req SendFriendRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}
	receiverID := strings.TrimSpace(req.ReceiverID)
	if receiverID == "" {
		utils.RespondError(w, &logMessageBuilder, "receiverId is required", http.StatusBadRequest)
		return
	}
	if receiverID == uid {
		utils.RespondError(w, &logMessageBuilder, "You cannot send a friend request to yourself", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	var receiver models.User
	if err := h.Store.Get(ctx, store.Users, receiverID, &receiver); err != nil {
		if store.IsNotFound(err) {
			utils.RespondError(w, &logMessageBuilder, "User not found", http.StatusNotFound)
			return
		}
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Database error: %v", err))
		utils.RespondError(w, &logMessageBuilder, "Database error", http.StatusInternalServerError)
		return
	}

	conflict, err := h.friendConflict(ctx, uid, receiverID)
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Database error: %v", err))
		utils.RespondError(w, &logMessageBuilder, "Database error", http.StatusInternalServerError)
		return
	}
	if conflict != "" {
		utils.RespondError(w, &logMessageBuilder, conflict, http.StatusConflict)
		return
	}

	fr := models.FriendRequest{RequesterID: uid, ReceiverID: receiverID, Status: models.FriendRequestPending}
	id, err := h.Store.Add(ctx, store.FriendRequests, fr)
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to save request: %v", err))
		utils.RespondError(w, &logMessageBuilder, "Failed to send friend request", http.StatusInternalServerError)
		return
	}
	if err := h.Store.Get(ctx, store.FriendRequests, id, &fr); err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to reload request: %v", err))
	}

	var requester models.User
	if err := h.Store.Get(ctx, store.Users, uid, &requester); err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Requester lookup failed: %v", err))
	}
	if receiver.Email != "" {
		if err := h.Notifier.Send(ctx, notify.FriendRequestEmail(receiver.Name, receiver.Email, requester.Name)); err != nil {
			utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to send email: %v", err))
		}
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Friend request %s sent", id))
	utils.RespondJSON(w, http.StatusOK, fr)
}

// friendConflict explains why uid may not send a request to other, or
// returns "" when it may.
func (h *Handler) friendConflict(ctx context.Context, uid, other string) (string, error) {
	var edge models.Friendship
	err := h.Store.Get(ctx, store.Friendships, models.FriendshipID(uid, other), &edge)
	if err == nil {
		return "You are already friends", nil
	}
	if !store.IsNotFound(err) {
		return "", err
	}

	checks := []struct {
		requester, receiver, message string
	}{
		{uid, other, "A friend request is already pending"},
		{other, uid, "This user already sent you a friend request"},
	}
	for _, c := range checks {
		var pending []models.FriendRequest
		q := store.Query{Where: map[string]any{
			"requesterId": c.requester,
			"receiverId":  c.receiver,
			"status":      models.FriendRequestPending,
		}, Limit: 1}
		if err := h.Store.List(ctx, store.FriendRequests, q, &pending); err != nil {
			return "", err
		}
		if len(pending) > 0 {
			return c.message, nil
		}
	}
	return "", nil
}

// RejectFriendRequestHandler deletes a pending request addressed to the caller.
func (h *Handler) RejectFriendRequestHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer utils.FlushLogMessage(&logMessageBuilder)
	utils.AddToLogMessage(&logMessageBuilder, "[Reject Friend Request API]")

	if !allowMethod(w, r, &logMessageBuilder, http.MethodPost) {
		return
	}
	uid, ok := caller(w, r, &logMessageBuilder)
	if !ok {
		return
	}

	id := r.PathValue("id")
	var fr models.FriendRequest
	if err := h.Store.Get(r.Context(), store.FriendRequests, id, &fr); err != nil {
		if store.IsNotFound(err) {
			utils.RespondError(w, &logMessageBuilder, "Friend request not found", http.StatusNotFound)
			return
		}
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Database error: %v", err))
		utils.RespondError(w, &logMessageBuilder, "Database error", http.StatusInternalServerError)
		return
	}
	if fr.ReceiverID != uid {
		utils.RespondError(w, &logMessageBuilder, "Only the receiver can reject this request", http.StatusForbidden)
		return
	}
	if fr.Status != models.FriendRequestPending {
		utils.RespondError(w, &logMessageBuilder, "Friend request is no longer pending", http.StatusBadRequest)
		return
	}

	if err := h.Store.Remove(r.Context(), store.FriendRequests, id); err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to delete request: %v", err))
		utils.RespondError(w, &logMessageBuilder, "Failed to reject friend request", http.StatusInternalServerError)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]bool{"rejected": true})
}

// FriendsHandler lists the caller's outgoing friendship edges.
func (h *Handler) FriendsHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer utils.FlushLogMessage(&logMessageBuilder)
	utils.AddToLogMessage(&logMessageBuilder, "[Friends API]")

	if !allowMethod(w, r, &logMessageBuilder, http.MethodGet) {
		return
	}
	uid, ok := caller(w, r, &logMessageBuilder)
	if !ok {
		return
	}

	friends := []models.Friendship{}
	q := store.Query{Where: map[string]any{"userId": uid}, OrderBy: "createdAt", Desc: true}
	if err := h.Store.List(r.Context(), store.Friendships, q, &friends); err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Database error: %v", err))
		utils.RespondError(w, &logMessageBuilder, "Failed to load friends", http.StatusInternalServerError)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]any{"friends": friends})
}
