package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"flicker/internal/domain"
)

// playerController abstracts the playback lifecycle controller
// (consumer-defined interface).
type playerController interface {
	Open(ctx context.Context, spec domain.MediaSpec) error
	Close() error
}

// authChecker reports whether a session token is present.
type authChecker interface {
	IsAuthenticated() bool
}

const historyTimeout = 10 * time.Second

// PlaybackService orchestrates play requests: it validates the locator,
// hands the media to the player controller, and fires the watch-history
// append without ever letting it block or revert playback.
type PlaybackService struct {
	player  playerController
	history domain.HistoryRecorder
	auth    authChecker
	logger  *slog.Logger

	// recorded signals each finished history attempt; tests wait on it.
	recorded chan struct{}
}

// NewPlaybackService creates a new playback service.
func NewPlaybackService(player playerController, history domain.HistoryRecorder, auth authChecker, logger *slog.Logger) *PlaybackService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PlaybackService{
		player:   player,
		history:  history,
		auth:     auth,
		logger:   logger,
		recorded: make(chan struct{}, 8),
	}
}

// PlayEpisode starts playback of one episode. An episode without a media
// locator fails with ErrNotStreamable before any state changes. On success
// the watch-history append runs fire-and-forget; its failure is logged,
// never surfaced.
func (s *PlaybackService) PlayEpisode(ctx context.Context, item domain.CatalogItem, season domain.Season, episode domain.Episode) error {
	if !episode.Streamable() {
		return fmt.Errorf("%w: %s", domain.ErrNotStreamable, episode.Title)
	}

	spec := domain.MediaSpec{
		Locator: episode.Video,
		Poster:  episodePoster(item, season, episode),
		Title:   fmt.Sprintf("%s %s %s", item.Title, episode.Code(season.SeasonNumber), episode.Title),
	}

	s.logger.Info("starting episode playback",
		"item", item.Title, "episode", episode.Code(season.SeasonNumber))

	if err := s.player.Open(ctx, spec); err != nil {
		return err
	}

	go s.recordHistory(item, season, episode)
	return nil
}

// PlayTrailer starts trailer playback, bypassing season/episode selection.
// An empty trailer locator is treated as absent.
func (s *PlaybackService) PlayTrailer(ctx context.Context, item domain.CatalogItem) error {
	if !item.HasTrailer() {
		return fmt.Errorf("%w: no trailer for %s", domain.ErrNotStreamable, item.Title)
	}

	spec := domain.MediaSpec{
		Locator: item.Trailer,
		Poster:  item.Image,
		Title:   item.Title + " (Trailer)",
	}

	s.logger.Info("starting trailer playback", "item", item.Title)
	return s.player.Open(ctx, spec)
}

// Stop tears down the active player session. Idempotent.
func (s *PlaybackService) Stop() error {
	return s.player.Close()
}

// recordHistory appends the watch-history entry after a confirmed play.
// Anonymous playback is not tracked; failure is logged and dropped.
func (s *PlaybackService) recordHistory(item domain.CatalogItem, season domain.Season, episode domain.Episode) {
	defer func() {
		select {
		case s.recorded <- struct{}{}:
		default:
		}
	}()

	if !s.auth.IsAuthenticated() {
		s.logger.Debug("anonymous playback, skipping history", "item", item.ID)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), historyTimeout)
	defer cancel()

	_, err := s.history.AddHistory(ctx, item.ID, season.SeasonNumber, episode.EpisodeNumber, 0)
	if err != nil {
		s.logger.Warn("failed to record watch history",
			"item", item.ID, "episode", episode.EpisodeNumber, "error", err)
		return
	}
	s.logger.Debug("watch history recorded", "item", item.ID, "episode", episode.EpisodeNumber)
}

// HistoryRecorded exposes completion of history attempts for callers that
// need to observe the side effect (tests, status display).
func (s *PlaybackService) HistoryRecorded() <-chan struct{} {
	return s.recorded
}

// episodePoster picks the most specific artwork available.
func episodePoster(item domain.CatalogItem, season domain.Season, episode domain.Episode) string {
	switch {
	case episode.Thumbnail != "":
		return episode.Thumbnail
	case season.Poster != "":
		return season.Poster
	default:
		return item.Image
	}
}
