package episode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/podwavelabs/podwave-core/internal/article"
	"github.com/podwavelabs/podwave-core/internal/bus"
	"github.com/podwavelabs/podwave-core/internal/config"
	"github.com/podwavelabs/podwave-core/internal/jobstore"
	"github.com/podwavelabs/podwave-core/internal/protocol"
	"github.com/podwavelabs/podwave-core/internal/script"
)

// jobTimeout bounds one episode end to end. Multi-turn synthesis against
// a remote provider can legitimately run for several minutes.
const jobTimeout = 30 * time.Minute

// Service consumes episode requests from the bus, runs the full
// article-to-audio pipeline, and publishes progress and results.
type Service struct {
	cfg       config.Config
	bus       *bus.Client
	store     *jobstore.Store
	extractor article.Extractor
	generator script.Generator
	assembler *Assembler
	sub       *nats.Subscription
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	ready     bool
	logger    *slog.Logger

	episodes  metric.Int64Counter
	durations metric.Float64Histogram
}

func NewService(parent context.Context, cfg config.Config, busClient *bus.Client, store *jobstore.Store,
	extractor article.Extractor, generator script.Generator, assembler *Assembler, logger *slog.Logger) *Service {
	ctx, cancel := context.WithCancel(parent)

	meter := otel.Meter("podwave/episode")
	episodes, _ := meter.Int64Counter("podwave.episodes.total",
		metric.WithDescription("Completed episode jobs by status"))
	durations, _ := meter.Float64Histogram("podwave.episodes.duration.seconds",
		metric.WithDescription("End-to-end episode job duration"))

	return &Service{
		cfg:       cfg,
		bus:       busClient,
		store:     store,
		extractor: extractor,
		generator: generator,
		assembler: assembler,
		ctx:       ctx,
		cancel:    cancel,
		logger:    logger.With(slog.String("component", "episode-service")),
		episodes:  episodes,
		durations: durations,
	}
}

func (s *Service) Start() error {
	if !s.cfg.Episode.Enabled {
		return nil
	}
	if err := os.MkdirAll(s.cfg.Episode.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create episode output dir: %w", err)
	}
	sub, err := s.bus.Conn().Subscribe(protocol.SubjectEpisodeRequest, s.handleRequest)
	if err != nil {
		return fmt.Errorf("subscribe episode requests: %w", err)
	}
	s.sub = sub
	s.ready = true
	return nil
}

func (s *Service) Close() {
	s.cancel()
	if s.sub != nil {
		_ = s.sub.Drain()
	}
	s.wg.Wait()
}

func (s *Service) Healthy() bool {
	return !s.cfg.Episode.Enabled || s.ready
}

func (s *Service) handleRequest(msg *nats.Msg) {
	var req protocol.EpisodeRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		s.logger.Warn("failed to decode episode request", slogError(err))
		return
	}
	if req.JobID == "" {
		req.JobID = uuid.NewString()
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(s.ctx, jobTimeout)
		defer cancel()
		s.runJob(ctx, req)
	}()
}

func (s *Service) runJob(ctx context.Context, req protocol.EpisodeRequest) {
	logger := s.logger.With(slog.String("job_id", req.JobID))
	start := time.Now()

	if err := s.store.CreateJob(ctx, req.JobID, req.ArticleURL, req.Title); err != nil {
		logger.Warn("failed to record job", slogError(err))
	}

	lastProgress := ""
	progress := func(percent int, message string) {
		lastProgress = message
		s.publishProgress(req.JobID, percent, message)
		if err := s.store.AppendProgress(ctx, req.JobID, percent, message); err != nil {
			logger.Warn("failed to record progress", slogError(err))
		}
	}

	result, err := s.produce(ctx, req, progress)
	if err != nil {
		logger.Warn("episode job failed", slogError(err))
		s.finishFailed(ctx, req.JobID, err, lastProgress)
		s.episodes.Add(ctx, 1, metric.WithAttributes(attribute.String("status", "failed")))
		return
	}

	path := filepath.Join(s.cfg.Episode.OutputDir, result.Filename)
	if err := os.WriteFile(path, result.Data, 0o644); err != nil {
		logger.Error("failed to write episode file", slogError(err))
		s.finishFailed(ctx, req.JobID, err, lastProgress)
		s.episodes.Add(ctx, 1, metric.WithAttributes(attribute.String("status", "failed")))
		return
	}

	if err := s.store.SetDone(ctx, req.JobID, result.Filename, path); err != nil {
		logger.Warn("failed to record job completion", slogError(err))
	}
	s.publish(protocol.SubjectEpisodeDone, protocol.EpisodeDone{
		JobID:      req.JobID,
		Path:       path,
		Filename:   result.Filename,
		SizeBytes:  len(result.Data),
		Downgraded: result.Downgraded,
		DurationMS: time.Since(start).Milliseconds(),
		Timestamp:  time.Now().UTC(),
	})
	s.episodes.Add(ctx, 1, metric.WithAttributes(attribute.String("status", "done")))
	s.durations.Record(ctx, time.Since(start).Seconds())
	logger.Info("episode complete",
		slog.String("path", path),
		slog.Int("size_bytes", len(result.Data)),
		slog.Bool("downgraded", result.Downgraded),
		slog.Duration("elapsed", time.Since(start)))
}

// produce runs extraction, script generation, and assembly for one job.
func (s *Service) produce(ctx context.Context, req protocol.EpisodeRequest, progress Progress) (Result, error) {
	if err := s.store.SetRunning(ctx, req.JobID); err != nil {
		s.logger.Warn("failed to mark job running", slogError(err))
	}

	title, text := req.Title, req.Text
	if text == "" {
		if req.ArticleURL == "" {
			return Result{}, errors.New("episode request carries neither article_url nor text")
		}
		art, err := s.extractor.Extract(ctx, req.ArticleURL)
		if err != nil {
			return Result{}, fmt.Errorf("extract article: %w", err)
		}
		title, text = art.Title, art.Text
	}

	scriptReq := script.RequestFromConfig(s.cfg.Script)
	scriptReq.Title = title
	scriptReq.Text = text
	turns, err := s.generator.Generate(ctx, scriptReq)
	if err != nil {
		return Result{}, fmt.Errorf("generate script: %w", err)
	}

	job := Job{
		Turns:       turns,
		HostVoice:   firstNonEmpty(req.HostVoice, s.cfg.Episode.HostVoice),
		GuestVoice:  firstNonEmpty(req.GuestVoice, s.cfg.Episode.GuestVoice),
		PauseMS:     s.cfg.Episode.PauseMS,
		TurnDelayMS: s.cfg.Episode.TurnDelayMS,
		PreferWAV:   s.cfg.Episode.PreferWAV,
	}
	if req.PauseMS > 0 {
		job.PauseMS = req.PauseMS
	}
	if job.HostVoice == "" || job.GuestVoice == "" {
		return Result{}, errors.New("no host or guest voice configured")
	}

	return s.assembler.Assemble(ctx, job, progress)
}

func (s *Service) finishFailed(ctx context.Context, jobID string, jobErr error, lastProgress string) {
	if err := s.store.SetFailed(ctx, jobID, jobErr.Error()); err != nil {
		s.logger.Warn("failed to record job failure", slogError(err))
	}
	s.publish(protocol.SubjectEpisodeFailed, protocol.EpisodeFailed{
		JobID:        jobID,
		Error:        jobErr.Error(),
		LastProgress: lastProgress,
		Timestamp:    time.Now().UTC(),
	})
}

func (s *Service) publishProgress(jobID string, percent int, message string) {
	s.publish(protocol.SubjectEpisodeProgress, protocol.EpisodeProgress{
		JobID:     jobID,
		Percent:   percent,
		Message:   message,
		Timestamp: time.Now().UTC(),
	})
}

func (s *Service) publish(subject string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		s.logger.Warn("failed to encode bus message", slogError(err))
		return
	}
	if err := s.bus.Conn().Publish(subject, data); err != nil {
		s.logger.Warn("failed to publish bus message", slog.String("subject", subject), slogError(err))
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func slogError(err error) slog.Attr {
	return slog.String("error", err.Error())
}
