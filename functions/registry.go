package functions

import (
	"context"
	"encoding/json"
	"sort"
)

// Handler runs one callable function on raw JSON data.
type Handler func(ctx context.Context, uid string, data json.RawMessage) (any, error)

// Registry dispatches callable functions by name.
type Registry struct {
	handlers map[string]Handler
}

func NewRegistry(svc *Service) *Registry {
	return &Registry{handlers: map[string]Handler{
		"analyzeClosetItem":             bind(svc.AnalyzeClosetItem),
		"analyzeBodyShape":              bind(svc.AnalyzeBodyShape),
		"generateOutfitRecommendations": bind(svc.GenerateOutfitRecommendations),
		"generateAvatar":                bind(svc.GenerateAvatar),
		"updateWearCount":               bind(svc.UpdateWearCount),
		"acceptFriendRequest":           bind(svc.AcceptFriendRequest),
	}}
}

// Invoke runs the named function for uid. The error is always a *Error.
func (r *Registry) Invoke(ctx context.Context, uid, name string, data json.RawMessage) (any, error) {
	if uid == "" {
		return nil, Errorf(CodeUnauthenticated, "Authentication required")
	}
	h, ok := r.handlers[name]
	if !ok {
		return nil, Errorf(CodeNotFound, "Unknown function %q", name)
	}
	result, err := h(ctx, uid, data)
	if err != nil {
		return nil, AsError(err)
	}
	return result, nil
}

// Has reports whether name is a registered function.
func (r *Registry) Has(name string) bool {
	_, ok := r.handlers[name]
	return ok
}

// Names lists the registered functions.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.handlers))
	for n := range r.handlers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func bind[Req, Resp any](fn func(context.Context, string, Req) (Resp, error)) Handler {
	return func(ctx context.Context, uid string, data json.RawMessage) (any, error) {
		var req Req
		if len(data) > 0 && string(data) != "null" {
			if err := json.Unmarshal(data, &req); err != nil {
				return nil, Errorf(CodeInvalidArgument, "Malformed request data")
			}
		}
		return fn(ctx, uid, req)
	}
}
