package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/convsurvey/internal/config"
	"github.com/fyrsmithlabs/convsurvey/internal/conversation"
	"github.com/fyrsmithlabs/convsurvey/internal/export"
	"github.com/fyrsmithlabs/convsurvey/internal/rating"
	"github.com/fyrsmithlabs/convsurvey/internal/scoring"
	"github.com/fyrsmithlabs/convsurvey/internal/table"
)

const instrumentationName = "github.com/fyrsmithlabs/convsurvey/internal/session"

// Session is the in-process state of one rating run: the loaded
// conversations, the rating store, the active annotator, the scoring
// configuration, and run bookkeeping. All state mutation flows through it;
// there are no package-level globals. Operations are synchronous and run to
// completion one at a time — the session has a single writer and is not
// safe for concurrent use.
type Session struct {
	cfg    *config.Config
	loader *conversation.Loader
	logger *zap.Logger

	runID     string
	startedAt time.Time

	annotatorID   string
	sourceFolder  string
	conversations []conversation.Conversation
	store         *rating.Store
	ratedThisRun  int

	// Telemetry
	tracer        trace.Tracer
	meter         metric.Meter
	ratingCounter metric.Int64Counter
	importCounter metric.Int64Counter
}

// New creates a session with defaults from cfg.
func New(cfg *config.Config, logger *zap.Logger) (*Session, error) {
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Session{
		cfg:       cfg,
		loader:    conversation.NewLoader(),
		logger:    logger,
		runID:     uuid.New().String(),
		startedAt: time.Now(),
		store:     rating.NewStore(),
		tracer:    otel.Tracer(instrumentationName),
		meter:     otel.Meter(instrumentationName),
	}
	s.initMetrics()
	return s, nil
}

// initMetrics initializes OpenTelemetry instruments. Failures degrade to
// nil instruments; recording on them is skipped.
func (s *Session) initMetrics() {
	var err error

	s.ratingCounter, err = s.meter.Int64Counter(
		"convsurvey.session.ratings_total",
		metric.WithDescription("Total number of ratings submitted"),
		metric.WithUnit("{rating}"),
	)
	if err != nil {
		s.logger.Warn("failed to create rating counter", zap.Error(err))
	}

	s.importCounter, err = s.meter.Int64Counter(
		"convsurvey.session.imports_total",
		metric.WithDescription("Total number of workbook imports reconciled"),
		metric.WithUnit("{import}"),
	)
	if err != nil {
		s.logger.Warn("failed to create import counter", zap.Error(err))
	}
}

// RunID identifies this process run, for log correlation only.
func (s *Session) RunID() string { return s.runID }

// StartedAt returns when the run began.
func (s *Session) StartedAt() time.Time { return s.startedAt }

// SetAnnotator declares the active annotator. The identifier is trimmed
// and must be non-empty.
func (s *Session) SetAnnotator(id string) error {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return fmt.Errorf("%w: annotator id required", export.ErrPrecondition)
	}
	s.annotatorID = trimmed
	return nil
}

// AnnotatorID returns the active annotator identifier.
func (s *Session) AnnotatorID() string { return s.annotatorID }

// SourceFolder returns the folder conversations were loaded from.
func (s *Session) SourceFolder() string { return s.sourceFolder }

// Conversations returns the loaded conversation set.
func (s *Session) Conversations() []conversation.Conversation { return s.conversations }

// Store exposes the rating store for read access (progress, lookups).
func (s *Session) Store() *rating.Store { return s.store }

// Threshold returns the active pass/fail threshold.
func (s *Session) Threshold() float64 { return s.cfg.Scoring.PassThreshold }

// Weights returns the active scoring weights.
func (s *Session) Weights() scoring.Weights { return s.cfg.Scoring.Weights() }

// Load replaces the conversation set from a folder. Reloading the same
// folder keeps existing ratings; a different folder resets the store, since
// ratings are meaningless against a different conversation set.
func (s *Session) Load(ctx context.Context, folder string) (*conversation.LoadResult, error) {
	ctx, span := s.tracer.Start(ctx, "session.load")
	defer span.End()
	span.SetAttributes(attribute.String("folder", folder))

	if s.annotatorID == "" {
		return nil, fmt.Errorf("%w: annotator id required", export.ErrPrecondition)
	}

	result, err := s.loader.LoadFolder(folder)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if len(result.Conversations) == 0 {
		return nil, fmt.Errorf("%w: no conversations found in %s", export.ErrPrecondition, folder)
	}

	sameFolder := result.Folder == s.sourceFolder
	s.conversations = result.Conversations
	s.sourceFolder = result.Folder
	if !sameFolder {
		s.store.Reset()
	}

	s.logger.Info("loaded conversations",
		zap.String("folder", result.Folder),
		zap.Int("count", len(result.Conversations)),
		zap.Int("load_errors", len(result.Errors)),
		zap.Bool("kept_ratings", sameFolder),
	)
	span.SetAttributes(attribute.Int("count", len(result.Conversations)))
	return result, nil
}

// Preview computes the score a submission would produce, without recording
// anything. The UI shows it live while the form is edited.
func (s *Session) Preview(scores map[scoring.Dimension]int, targetStatuses map[string]int) (float64, scoring.Outcome, scoring.Band) {
	completed := 0
	for _, status := range targetStatuses {
		if status == 1 {
			completed++
		}
	}
	score := scoring.Score(scores, completed, len(targetStatuses), s.Weights())
	return score, scoring.PassFail(score, s.Threshold()), scoring.Classify(score, s.Threshold())
}

// Rate records the rater's judgment of a conversation. The overall score
// and audit counts are always recomputed here; callers cannot supply them.
// Re-rating replaces the previous rating wholesale.
func (s *Session) Rate(ctx context.Context, conversationID string, scores map[scoring.Dimension]int, targetStatuses map[string]int) (rating.Rating, error) {
	ctx, span := s.tracer.Start(ctx, "session.rate")
	defer span.End()
	span.SetAttributes(attribute.String("conversation_id", conversationID))

	if s.annotatorID == "" {
		return rating.Rating{}, fmt.Errorf("%w: annotator id required", export.ErrPrecondition)
	}
	conv, ok := s.findConversation(conversationID)
	if !ok {
		return rating.Rating{}, fmt.Errorf("%w: conversation %q is not loaded", export.ErrPrecondition, conversationID)
	}
	for dim, v := range scores {
		if v < scoring.MinDimensionScore || v > scoring.MaxDimensionScore {
			return rating.Rating{}, fmt.Errorf("%w: score %d for %s is outside 0-2", export.ErrPrecondition, v, dim)
		}
	}

	r := rating.Rating{
		ConversationID: conversationID,
		AnnotatorID:    s.annotatorID,
		Timestamp:      time.Now().UTC().Truncate(time.Second),
		SeedPhrase:     conv.SeedPhrase,
		Scores:         copyScores(scores),
		TargetStatuses: copyStatuses(targetStatuses),
	}
	r.RecountTargets()
	r.OverallScore = scoring.Score(r.Scores, r.TargetsCompleted, r.TargetsIntroduced, s.Weights())
	r.PassFail = scoring.PassFail(r.OverallScore, s.Threshold())

	alreadyDone := s.store.IsDone(conversationID)
	s.store.Upsert(conversationID, r)
	if !alreadyDone {
		s.ratedThisRun++
	}

	if s.ratingCounter != nil {
		s.ratingCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.Bool("update", alreadyDone),
			attribute.String("pass_fail", string(r.PassFail)),
		))
	}
	s.logger.Info("rating saved",
		zap.String("conversation_id", conversationID),
		zap.Float64("overall_score", r.OverallScore),
		zap.String("pass_fail", string(r.PassFail)),
		zap.Bool("update", alreadyDone),
	)
	span.SetAttributes(attribute.Float64("overall_score", r.OverallScore))
	return r, nil
}

// Export snapshots the store and session configuration into the two
// persistence relations.
func (s *Session) Export(ctx context.Context) (*table.Workbook, error) {
	_, span := s.tracer.Start(ctx, "session.export")
	defer span.End()

	wb, err := export.Export(export.Snapshot{
		Store:              s.store,
		AnnotatorID:        s.annotatorID,
		SourceFolder:       s.sourceFolder,
		TotalConversations: len(s.conversations),
		Threshold:          s.Threshold(),
		Weights:            s.Weights(),
		ExportedAt:         time.Now().UTC(),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("rows", wb.Ratings.Len()))
	return wb, nil
}

// Save exports the session and writes the workbook next to the source
// folder, returning the path written.
func (s *Session) Save(ctx context.Context) (string, error) {
	wb, err := s.Export(ctx)
	if err != nil {
		return "", err
	}
	path := table.RatingsPath(s.sourceFolder, s.annotatorID)
	if err := wb.WriteFile(path); err != nil {
		return "", err
	}
	s.logger.Info("exported ratings",
		zap.String("path", path),
		zap.Int("rows", wb.Ratings.Len()),
	)
	return path, nil
}

// Import reconciles a previously exported workbook against the loaded
// conversations and, on success, replaces the store with the reconstructed
// one. On failure the session is left exactly as it was: reconciliation is
// all-or-nothing.
func (s *Session) Import(ctx context.Context, path string) (*export.Result, error) {
	ctx, span := s.tracer.Start(ctx, "session.import")
	defer span.End()
	span.SetAttributes(attribute.String("path", path))

	wb, err := table.ReadFile(path)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("%w: %v", export.ErrMalformedImport, err)
	}

	result, err := export.Reconcile(conversation.IDSet(s.conversations), s.annotatorID, wb.Ratings, wb.Metadata)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	s.store = result.Store

	if s.importCounter != nil {
		s.importCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.Int("matched", result.Matched),
			attribute.Int("unmatched", len(result.Unmatched)),
		))
	}
	s.logger.Info("restored ratings from workbook",
		zap.String("path", path),
		zap.Int("matched", result.Matched),
		zap.Int("unmatched", len(result.Unmatched)),
	)
	span.SetAttributes(
		attribute.Int("matched", result.Matched),
		attribute.Int("unmatched", len(result.Unmatched)),
	)
	return result, nil
}

// Progress reports how many loaded conversations are rated.
func (s *Session) Progress() (done, total int) {
	return s.store.DoneCount(), len(s.conversations)
}

// RatedThisRun counts first-time ratings submitted in this process run.
func (s *Session) RatedThisRun() int { return s.ratedThisRun }

// BreakDue reports whether the rater just hit the break reminder interval.
func (s *Session) BreakDue() bool {
	interval := s.cfg.Survey.BreakReminderInterval
	return interval > 0 && s.ratedThisRun > 0 && s.ratedThisRun%interval == 0
}

// RunningLong reports whether the run has exceeded the recommended session
// duration.
func (s *Session) RunningLong() bool {
	max := s.cfg.Survey.MaxSessionDuration.Duration()
	return max > 0 && time.Since(s.startedAt) > max
}

func (s *Session) findConversation(id string) (conversation.Conversation, bool) {
	for _, c := range s.conversations {
		if c.ID == id {
			return c, true
		}
	}
	return conversation.Conversation{}, false
}

func copyScores(in map[scoring.Dimension]int) map[scoring.Dimension]int {
	out := make(map[scoring.Dimension]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func copyStatuses(in map[string]int) map[string]int {
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
