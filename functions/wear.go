package functions

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/raushankrgupta/stylesync/models"
	"github.com/raushankrgupta/stylesync/store"
	"github.com/raushankrgupta/stylesync/validation"
)

type UpdateWearCountRequest struct {
	ItemIDs []string `json:"itemIds" validate:"required,min=1,max=50,dive,required"`
}

type UpdateWearCountResponse struct {
	Updated []string `json:"updated"`
	Failed  []string `json:"failed"`
}

// UpdateWearCount logs one wear for each of the caller's items. Items that
// are missing or owned by someone else are reported in Failed untouched.
func (s *Service) UpdateWearCount(ctx context.Context, uid string, req UpdateWearCountRequest) (*UpdateWearCountResponse, error) {
	if err := requireCaller(uid); err != nil {
		return nil, err
	}
	if err := validation.Struct(req); err != nil {
		return nil, Errorf(CodeInvalidArgument, "%s", err.Error())
	}

	resp := &UpdateWearCountResponse{Updated: []string{}, Failed: []string{}}
	now := s.now().UTC()
	seen := map[string]bool{}
	for _, id := range req.ItemIDs {
		if seen[id] {
			continue
		}
		seen[id] = true

		if err := s.recordWear(ctx, uid, id, now); err != nil {
			if !errors.Is(err, errNotOwned) {
				slog.Error("updateWearCount: record wear", "itemId", id, "error", err)
			}
			resp.Failed = append(resp.Failed, id)
			continue
		}
		resp.Updated = append(resp.Updated, id)
	}
	return resp, nil
}

var errNotOwned = errors.New("item missing or not owned by caller")

// recordWear reads and rewrites one item in a transaction so concurrent
// wear events each add exactly one.
func (s *Service) recordWear(ctx context.Context, uid, id string, now time.Time) error {
	return s.store.RunInTransaction(ctx, func(ctx context.Context, tx store.Store) error {
		var item models.ClosetItem
		if err := tx.Get(ctx, store.ClosetItems, id, &item); err != nil {
			if store.IsNotFound(err) {
				return errNotOwned
			}
			return err
		}
		if item.UserID != uid {
			return errNotOwned
		}

		item.RecordWear(now)
		return tx.Update(ctx, store.ClosetItems, id, map[string]any{
			"wearCount":   item.WearCount,
			"lastWornAt":  item.LastWornAt,
			"costPerWear": item.CostPerWear,
		})
	})
}
