package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"signage/internal/logger"
	"signage/internal/metrics"
	"signage/internal/model"
	"signage/internal/repository"
	"signage/internal/storage"
)

// PlaybackExtensions are the media types the slideshow client can render.
var PlaybackExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".mp4"}

// PlaylistService defines the use cases the HTTP layer consumes.
// The media and URL stores stay independent: no operation spans both.
type PlaylistService interface {
	// ListMedia returns every media object sorted by name (admin view).
	ListMedia(ctx context.Context) ([]model.MediaObject, error)

	// ListPlaybackMedia returns playable media sorted by modification time, oldest first.
	ListPlaybackMedia(ctx context.Context) ([]model.MediaObject, error)

	// UploadMedia stores r under name, replacing any object with the same name.
	UploadMedia(ctx context.Context, name string, r io.Reader, size int64) (*model.MediaObject, error)

	// OpenMedia returns the content of a stored object for serving.
	OpenMedia(ctx context.Context, name string) (io.ReadCloser, *model.MediaObject, error)

	// DeleteMedia removes a stored object. Missing objects are ErrNotFound.
	DeleteMedia(ctx context.Context, name string) error

	// ListURLs returns the display URLs in insertion order.
	ListURLs(ctx context.Context) ([]string, error)

	// AddURL appends a display URL.
	AddURL(ctx context.Context, url string) error

	// DeleteURL removes every occurrence of url. Missing values are not an error.
	DeleteURL(ctx context.Context, url string) error

	// Check verifies both stores can be read.
	Check(ctx context.Context) error
}

// Option configures a playlistService.
type Option func(*playlistService)

// WithLogger sets the logger used for mutation and failure logs.
func WithLogger(l *zap.Logger) Option {
	return func(s *playlistService) { s.log = l }
}

// WithMetrics sets the collectors used to record store operations.
func WithMetrics(m *metrics.StoreMetrics) Option {
	return func(s *playlistService) { s.metrics = m }
}

// playlistService is a concrete implementation of PlaylistService.
type playlistService struct {
	media   storage.Media
	urls    repository.URLRepository
	log     *zap.Logger
	metrics *metrics.StoreMetrics
	tracer  trace.Tracer
}

// NewPlaylistService constructs a new PlaylistService.
func NewPlaylistService(media storage.Media, urls repository.URLRepository, opts ...Option) PlaylistService {
	s := &playlistService{
		media:  media,
		urls:   urls,
		log:    zap.NewNop(),
		tracer: otel.Tracer("signage/internal/service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *playlistService) ListMedia(ctx context.Context) (_ []model.MediaObject, err error) {
	ctx, _, done := s.begin(ctx, metrics.StoreMedia, "list")
	defer func() { done(err) }()

	return s.media.List(ctx)
}

func (s *playlistService) ListPlaybackMedia(ctx context.Context) (_ []model.MediaObject, err error) {
	ctx, _, done := s.begin(ctx, metrics.StoreMedia, "list_playback")
	defer func() { done(err) }()

	objs, err := s.media.ListByModTime(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.MediaObject, 0, len(objs))
	for _, obj := range objs {
		if IsPlayable(obj.Name) {
			out = append(out, obj)
		}
	}
	return out, nil
}

func (s *playlistService) UploadMedia(ctx context.Context, name string, r io.Reader, size int64) (_ *model.MediaObject, err error) {
	ctx, log, done := s.begin(ctx, metrics.StoreMedia, "put", attribute.String("media.name", name), attribute.Int64("media.declared_size", size))
	defer func() { done(err) }()

	obj, err := s.media.Put(ctx, name, r, size)
	if err != nil {
		return nil, err
	}
	log.Info("media uploaded",
		zap.String("name", obj.Name),
		zap.Int64("size", obj.Size),
		zap.String("content_type", obj.ContentType),
	)
	return obj, nil
}

func (s *playlistService) OpenMedia(ctx context.Context, name string) (_ io.ReadCloser, _ *model.MediaObject, err error) {
	ctx, _, done := s.begin(ctx, metrics.StoreMedia, "open", attribute.String("media.name", name))
	defer func() { done(err) }()

	return s.media.Open(ctx, name)
}

func (s *playlistService) DeleteMedia(ctx context.Context, name string) (err error) {
	ctx, log, done := s.begin(ctx, metrics.StoreMedia, "delete", attribute.String("media.name", name))
	defer func() { done(err) }()

	if err := s.media.Delete(ctx, name); err != nil {
		return err
	}
	log.Info("media deleted", zap.String("name", name))
	return nil
}

func (s *playlistService) ListURLs(ctx context.Context) (_ []string, err error) {
	ctx, _, done := s.begin(ctx, metrics.StoreURLs, "list")
	defer func() { done(err) }()

	return s.urls.List(ctx)
}

func (s *playlistService) AddURL(ctx context.Context, url string) (err error) {
	ctx, log, done := s.begin(ctx, metrics.StoreURLs, "add")
	defer func() { done(err) }()

	if err := s.urls.Add(ctx, url); err != nil {
		return err
	}
	log.Info("url added", zap.String("url", strings.TrimSpace(url)))
	return nil
}

func (s *playlistService) DeleteURL(ctx context.Context, url string) (err error) {
	ctx, log, done := s.begin(ctx, metrics.StoreURLs, "remove")
	defer func() { done(err) }()

	if err := s.urls.Remove(ctx, url); err != nil {
		return err
	}
	log.Info("url deleted", zap.String("url", url))
	return nil
}

func (s *playlistService) Check(ctx context.Context) error {
	if _, err := s.media.List(ctx); err != nil {
		return err
	}
	_, err := s.urls.List(ctx)
	return err
}

// begin opens a span for one store operation and returns a logger carrying the
// request id plus the func that closes the span, recording metrics and logging failures.
func (s *playlistService) begin(ctx context.Context, store, op string, attrs ...attribute.KeyValue) (context.Context, *zap.Logger, func(error)) {
	start := time.Now()
	attrs = append(attrs, attribute.String("store", store))
	ctx, span := s.tracer.Start(ctx, "playlist."+store+"."+op, trace.WithAttributes(attrs...))
	log := logger.FromContext(ctx, s.log)

	return ctx, log, func(err error) {
		defer span.End()
		s.metrics.Observe(store, op, start, err)
		if err == nil {
			return
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, metrics.Result(err))

		fields := []zap.Field{zap.String("store", store), zap.String("op", op), zap.Error(err)}
		if errors.Is(err, model.ErrStorage) {
			log.Error("store operation failed", fields...)
		} else {
			log.Debug("store operation rejected", fields...)
		}
	}
}

// IsPlayable reports whether name has one of PlaybackExtensions, ignoring case.
func IsPlayable(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range PlaybackExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
