// Package functions implements the callable AI functions: closet tagging,
// body-shape analysis, outfit recommendations, avatar generation, wear
// logging and friend-request acceptance.
package functions

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/raushankrgupta/stylesync/ai"
	"github.com/raushankrgupta/stylesync/media"
	"github.com/raushankrgupta/stylesync/store"
)

// AvatarCreator builds a 3D avatar from a face photo.
type AvatarCreator interface {
	CreateAvatar(ctx context.Context, in ai.AvatarRequest) (*ai.AvatarResult, error)
}

// ImageLoader resolves an image reference (URL, data URL, base64) into bytes.
type ImageLoader func(ctx context.Context, input string) ([]byte, string, error)

// Service runs the callable functions against a store and an AI model.
type Service struct {
	store     store.Store
	model     ai.Model
	avatars   AvatarCreator
	loadImage ImageLoader
	timeout   time.Duration
	now       func() time.Time
}

type Option func(*Service)

// WithClock overrides the wall clock used for wear timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithImageLoader overrides how image references are fetched.
func WithImageLoader(load ImageLoader) Option {
	return func(s *Service) { s.loadImage = load }
}

// WithTimeout bounds each model call.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) { s.timeout = d }
}

func NewService(st store.Store, model ai.Model, avatars AvatarCreator, opts ...Option) *Service {
	s := &Service{
		store:     st,
		model:     model,
		avatars:   avatars,
		loadImage: media.DecodeImage,
		timeout:   30 * time.Second,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// generate makes one bounded model call and decodes its JSON answer into v.
func (s *Service) generate(ctx context.Context, fn, prompt string, v any, images ...ai.Image) error {
	if s.model == nil {
		return Errorf(CodeFailedPrecondition, "AI provider is not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	text, err := s.model.Generate(ctx, prompt, images...)
	if err != nil {
		if errors.Is(err, ai.ErrMissingCredential) {
			return Errorf(CodeFailedPrecondition, "AI provider is not configured")
		}
		slog.Error("model call failed", "function", fn, "error", err, "elapsed", time.Since(start))
		if errors.Is(err, context.DeadlineExceeded) {
			return Errorf(CodeInternal, "Analysis timed out")
		}
		return Errorf(CodeInternal, "AI provider request failed")
	}
	if err := ai.DecodeJSON(text, v); err != nil {
		slog.Error("model returned unparseable JSON", "function", fn, "error", err)
		return Errorf(CodeInternal, "AI returned an unreadable response")
	}
	slog.Debug("model call", "function", fn, "elapsed", time.Since(start))
	return nil
}

func (s *Service) image(ctx context.Context, ref, mimeType string) (ai.Image, error) {
	data, contentType, err := s.loadImage(ctx, ref)
	if err != nil {
		slog.Warn("could not load image", "error", err)
		return ai.Image{}, Errorf(CodeInvalidArgument, "Could not read image")
	}
	if mimeType != "" {
		contentType = mimeType
	}
	return ai.Image{MIMEType: contentType, Data: data}, nil
}

func requireCaller(uid string) error {
	if uid == "" {
		return Errorf(CodeUnauthenticated, "Authentication required")
	}
	return nil
}

// internal logs a backend failure and hides it behind a generic message.
func internal(op string, err error) error {
	slog.Error("callable function failed", "op", op, "error", err)
	return Errorf(CodeInternal, "Internal error")
}
