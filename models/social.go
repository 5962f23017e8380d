package models

import (
	"fmt"
	"time"
)

const (
	FriendRequestPending  = "pending"
	FriendRequestAccepted = "accepted"
)

// FriendRequest is deleted on rejection; accepted is terminal.
type FriendRequest struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	RequesterID string    `bson:"requesterId" json:"requesterId"`
	ReceiverID  string    `bson:"receiverId" json:"receiverId"`
	Status      string    `bson:"status" json:"status"`
	CreatedAt   time.Time `bson:"createdAt,omitempty" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt,omitempty" json:"updatedAt"`
}

// Friendship is one directed edge. An accepted request produces two of them.
type Friendship struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	UserID    string    `bson:"userId" json:"userId"`
	FriendID  string    `bson:"friendId" json:"friendId"`
	RequestID string    `bson:"requestId" json:"requestId"`
	CreatedAt time.Time `bson:"createdAt,omitempty" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt,omitempty" json:"updatedAt"`
}

// FriendshipID is the deterministic id of the userID -> friendID edge.
func FriendshipID(userID, friendID string) string {
	return fmt.Sprintf("%s_%s", userID, friendID)
}
