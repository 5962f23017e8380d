package functions

import (
	"context"

	"github.com/raushankrgupta/stylesync/models"
	"github.com/raushankrgupta/stylesync/store"
)

type AcceptFriendRequestRequest struct {
	RequestID string `json:"requestId"`
}

type AcceptFriendRequestResponse struct {
	Status        string   `json:"status"`
	FriendshipIDs []string `json:"friendshipIds"`
}

// AcceptFriendRequest marks a pending request accepted and writes both
// friendship edges in one transaction.
func (s *Service) AcceptFriendRequest(ctx context.Context, uid string, req AcceptFriendRequestRequest) (*AcceptFriendRequestResponse, error) {
	if err := requireCaller(uid); err != nil {
		return nil, err
	}
	if req.RequestID == "" {
		return nil, Errorf(CodeInvalidArgument, "requestId is required")
	}

	var ids []string
	err := s.store.RunInTransaction(ctx, func(ctx context.Context, tx store.Store) error {
		var fr models.FriendRequest
		if err := tx.Get(ctx, store.FriendRequests, req.RequestID, &fr); err != nil {
			if store.IsNotFound(err) {
				return Errorf(CodeNotFound, "Friend request not found")
			}
			return err
		}
		if fr.ReceiverID != uid {
			return Errorf(CodePermissionDenied, "Only the receiver can accept this request")
		}
		if fr.Status != models.FriendRequestPending {
			return Errorf(CodeFailedPrecondition, "Friend request is already %s", fr.Status)
		}

		if err := tx.Update(ctx, store.FriendRequests, fr.ID, map[string]any{"status": models.FriendRequestAccepted}); err != nil {
			return err
		}
		edges := []models.Friendship{
			{UserID: fr.ReceiverID, FriendID: fr.RequesterID, RequestID: fr.ID},
			{UserID: fr.RequesterID, FriendID: fr.ReceiverID, RequestID: fr.ID},
		}
		ids = ids[:0]
		for _, e := range edges {
			id := models.FriendshipID(e.UserID, e.FriendID)
			if err := tx.Set(ctx, store.Friendships, id, e, false); err != nil {
				return err
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		if fe := AsError(err); fe.Code != CodeInternal {
			return nil, fe
		}
		return nil, internal("acceptFriendRequest", err)
	}
	return &AcceptFriendRequestResponse{Status: models.FriendRequestAccepted, FriendshipIDs: ids}, nil
}
