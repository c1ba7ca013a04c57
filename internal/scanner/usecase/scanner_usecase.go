package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	auditDomain "github.com/allisson/tokenvault/internal/audit/domain"
	apperrors "github.com/allisson/tokenvault/internal/errors"
	scannerDomain "github.com/allisson/tokenvault/internal/scanner/domain"
	tokenizationDomain "github.com/allisson/tokenvault/internal/tokenization/domain"
)

const (
	DefaultMaxObjectBytes   = 1 << 20
	DefaultTokenExpiryHours = 720
	DefaultBatchSize        = 1000
)

// Field names of the tokens a scan creates.
const (
	FieldInfoType = "info_type"
	FieldValue    = "value"
	FieldSource   = "source"
	FieldObject   = "object"
)

// Config holds scanner settings. Zero values take the defaults.
type Config struct {
	MaxObjectBytes   int64
	TokenExpiryHours int
	// BatchSize bounds the items sent to one CreateBulk call.
	BatchSize int
}

func (c Config) withDefaults() Config {
	if c.MaxObjectBytes <= 0 {
		c.MaxObjectBytes = DefaultMaxObjectBytes
	}
	if c.TokenExpiryHours <= 0 {
		c.TokenExpiryHours = DefaultTokenExpiryHours
	}
	if c.BatchSize <= 0 {
		c.BatchSize = DefaultBatchSize
	}
	return c
}

// Option configures the scanner use case.
type Option func(*scannerUseCase)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *scannerUseCase) {
		s.now = now
	}
}

type scannerUseCase struct {
	config    Config
	sources   []ObjectSource
	inspector Inspector
	tokenizer Tokenizer
	audit     AuditRecorder
	logger    *slog.Logger
	now       func() time.Time

	mu     sync.Mutex
	status scannerDomain.Status
}

// NewScannerUseCase creates a ScannerUseCase over sources.
func NewScannerUseCase(
	config Config,
	sources []ObjectSource,
	inspector Inspector,
	tokenizer Tokenizer,
	audit AuditRecorder,
	logger *slog.Logger,
	opts ...Option,
) ScannerUseCase {
	s := &scannerUseCase{
		config:    config.withDefaults(),
		sources:   sources,
		inspector: inspector,
		tokenizer: tokenizer,
		audit:     audit,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *scannerUseCase) Status() scannerDomain.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *scannerUseCase) begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status.Running {
		return false
	}
	s.status.Running = true
	return true
}

func (s *scannerUseCase) finish(startedAt time.Time, report *scannerDomain.Report, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.Running = false
	s.status.LastRunAt = &startedAt
	s.status.LastError = ""
	if err != nil {
		s.status.LastError = err.Error()
		return
	}
	s.status.TotalScans++
	s.status.TotalFindings += int64(report.Findings)
}

func (s *scannerUseCase) Scan(ctx context.Context) (*scannerDomain.Report, error) {
	if len(s.sources) == 0 {
		return nil, scannerDomain.ErrNoSources
	}
	if !s.begin() {
		return nil, scannerDomain.ErrScanInProgress
	}

	startedAt := s.now().UTC()
	report, err := s.run(ctx, startedAt)
	if err != nil {
		details := map[string]any{
			auditDomain.DetailError:      err.Error(),
			auditDomain.DetailDurationMS: s.now().Sub(startedAt).Milliseconds(),
		}
		if auditErr := s.audit.Record(ctx, tokenizationDomain.SystemOwnerID, auditDomain.ActionScanFailed, details); auditErr != nil {
			s.logger.Error("failed to record scan failure", slog.Any("error", auditErr))
		}
		s.logger.Error("scan failed", slog.Any("error", err))
	}

	s.finish(startedAt, report, err)
	return report, err
}

type located struct {
	infoType scannerDomain.InfoType
	source   string
	object   string
}

func (s *scannerUseCase) run(ctx context.Context, startedAt time.Time) (*scannerDomain.Report, error) {
	names := make([]string, 0, len(s.sources))
	for _, source := range s.sources {
		names = append(names, source.Name())
	}
	if err := s.audit.Record(ctx, tokenizationDomain.SystemOwnerID, auditDomain.ActionScanStarted, map[string]any{
		auditDomain.DetailBuckets: names,
	}); err != nil {
		return nil, apperrors.Wrap(err, "failed to record scan start")
	}

	report := &scannerDomain.Report{
		StartedAt:  startedAt,
		Sources:    len(s.sources),
		ByInfoType: make(map[scannerDomain.InfoType]int),
	}

	var items []tokenizationDomain.BulkItem
	var origins []located

	for _, source := range s.sources {
		refs, err := source.List(ctx)
		if err != nil {
			return nil, apperrors.Wrapf(err, "failed to list source %s", source.Name())
		}

		for _, ref := range refs {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			data, err := source.Read(ctx, ref.Key, s.config.MaxObjectBytes)
			if err != nil {
				s.logger.Warn("skipping unreadable object",
					slog.String("source", source.Name()),
					slog.String("object", ref.Key),
					slog.Any("error", err),
				)
				continue
			}
			report.Objects++

			for _, match := range s.inspector.Inspect(data) {
				report.Findings++
				report.ByInfoType[match.InfoType]++
				items = append(items, tokenizationDomain.BulkItem{
					Fields: tokenizationDomain.Fields{
						FieldInfoType: string(match.InfoType),
						FieldValue:    match.Value,
						FieldSource:   source.Name(),
						FieldObject:   ref.Key,
					},
					ExpiryHours: s.config.TokenExpiryHours,
				})
				origins = append(origins, located{infoType: match.InfoType, source: source.Name(), object: ref.Key})
			}
		}
	}

	for start := 0; start < len(items); start += s.config.BatchSize {
		end := min(start+s.config.BatchSize, len(items))
		if err := s.tokenize(ctx, items[start:end], origins[start:end], report); err != nil {
			return nil, err
		}
	}

	report.Duration = s.now().Sub(startedAt)
	if err := s.audit.Record(ctx, tokenizationDomain.SystemOwnerID, auditDomain.ActionScanCompleted, map[string]any{
		auditDomain.DetailBuckets:    report.Sources,
		auditDomain.DetailObjects:    report.Objects,
		auditDomain.DetailFindings:   report.Findings,
		auditDomain.DetailDurationMS: report.Duration.Milliseconds(),
	}); err != nil {
		return nil, apperrors.Wrap(err, "failed to record scan completion")
	}

	s.logger.Info("scan completed",
		slog.Int("sources", report.Sources),
		slog.Int("objects", report.Objects),
		slog.Int("findings", report.Findings),
		slog.Int("tokenized", report.Tokenized),
		slog.Int("duplicates", report.Duplicates),
		slog.Int("failed", report.Failed),
		slog.Duration("duration", report.Duration),
	)
	return report, nil
}

// tokenize seals one batch and records a scan_tokenize event per created token.
func (s *scannerUseCase) tokenize(
	ctx context.Context,
	items []tokenizationDomain.BulkItem,
	origins []located,
	report *scannerDomain.Report,
) error {
	output, err := s.tokenizer.CreateBulk(ctx, tokenizationDomain.SystemOwnerID, items)
	if err != nil {
		return apperrors.Wrap(err, "failed to tokenize findings")
	}

	report.Tokenized += output.Summary.Created
	report.Duplicates += output.Summary.Duplicates
	report.Failed += output.Summary.Failed

	for _, result := range output.Results {
		if result.Status != tokenizationDomain.BulkStatusCreated {
			continue
		}
		origin := origins[result.Index]
		if err := s.audit.Record(ctx, tokenizationDomain.SystemOwnerID, auditDomain.ActionScanTokenize, map[string]any{
			auditDomain.DetailInfoType: string(origin.infoType),
			auditDomain.DetailBucket:   origin.source,
			auditDomain.DetailObject:   origin.object,
			auditDomain.DetailToken:    result.Token,
		}); err != nil {
			return apperrors.Wrap(err, "failed to record tokenized finding")
		}
	}
	return nil
}
