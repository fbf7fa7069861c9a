// Package session implements the cached compile flow with interactive retry.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.trai.ch/shadercache/internal/core/domain"
	"go.trai.ch/shadercache/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.CompileSession = (*Session)(nil)

// Session compiles requests through the cache. It runs one compile at a time;
// the retry loop blocks on the decider.
type Session struct {
	expander ports.SourceExpander
	store    ports.CacheStore
	compiler ports.Compiler
	decider  ports.RetryDecider
	tracer   ports.Tracer
	logger   ports.Logger
	force    bool
}

// Option configures a Session.
type Option func(*Session)

// WithForce skips cache lookups. Successful results are still stored.
func WithForce(force bool) Option {
	return func(s *Session) {
		s.force = force
	}
}

// New creates a Session with the given dependencies.
func New(
	expander ports.SourceExpander,
	store ports.CacheStore,
	compiler ports.Compiler,
	decider ports.RetryDecider,
	tracer ports.Tracer,
	logger ports.Logger,
	opts ...Option,
) *Session {
	s := &Session{
		expander: expander,
		store:    store,
		compiler: compiler,
		decider:  decider,
		tracer:   tracer,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Compile returns the artifact for req, compiling only when no valid cache entry exists.
func (s *Session) Compile(ctx context.Context, req domain.CompileRequest) (domain.Artifact, error) {
	res, err := s.CompileResult(ctx, req)
	if err != nil {
		return nil, err
	}
	return res.Artifact, nil
}

// CompileResult is Compile with cache and retry details.
func (s *Session) CompileResult(ctx context.Context, req domain.CompileRequest) (domain.CompileResult, error) {
	if err := req.Validate(); err != nil {
		return domain.CompileResult{}, err
	}

	key := s.store.KeyFor(req)
	ctx, span := s.tracer.Start(ctx, "compile "+key)
	defer span.End()
	span.SetAttribute("cache.key", key)

	res, err := s.run(ctx, req, key, span)
	span.SetAttribute("cache.hit", res.CacheHit)
	span.SetAttribute("compile.attempts", res.Attempts)
	if err != nil {
		span.RecordError(err)
		return domain.CompileResult{}, err
	}
	return res, nil
}

// run does the work of CompileResult. Compiler diagnostics are written to log.
func (s *Session) run(ctx context.Context, req domain.CompileRequest, key string, log io.Writer) (domain.CompileResult, error) {
	src, err := s.expander.Expand(req.SourcePath)
	if err != nil {
		return domain.CompileResult{}, err
	}

	if !s.force {
		if entry := s.lookup(key); entry != nil && entry.StoredHash == src.Hash {
			return domain.CompileResult{
				Artifact: entry.Artifact.Clone(),
				Key:      key,
				Hash:     src.Hash,
				CacheHit: true,
			}, nil
		}
	}

	for attempt := 1; ; attempt++ {
		artifact, err := s.compiler.Compile(ctx, domain.CompileInput{
			SourcePath: req.SourcePath,
			Source:     src.Text,
			EntryPoint: req.EntryPoint,
			Profile:    req.Profile,
			Macros:     req.Macros,
		})
		if err == nil {
			return s.finish(req, key, src.Hash, artifact, attempt), nil
		}

		var diag *domain.Diagnostic
		if !errors.As(err, &diag) {
			return domain.CompileResult{Attempts: attempt}, compilerError(req, err)
		}

		_, _ = fmt.Fprintf(log, "attempt %d: %s", attempt, diag.Message)

		failed := compileError(req, diag)
		decision, decideErr := s.decide(ctx, domain.Failure{
			Request:    req,
			Diagnostic: diag.Message,
			Attempt:    attempt,
			Files:      src.Files,
			Err:        failed,
		})
		if decision != domain.DecisionRetry {
			return domain.CompileResult{Attempts: attempt}, abortError(failed, decideErr)
		}

		// The user may have edited the source or any include before retrying.
		src, err = s.expander.Expand(req.SourcePath)
		if err != nil {
			return domain.CompileResult{Attempts: attempt}, err
		}
	}
}

func (s *Session) lookup(key string) *domain.CacheEntry {
	entry, err := s.store.Lookup(key)
	if err != nil {
		s.logger.Warn(fmt.Sprintf("cache lookup for %s failed, recompiling: %v", key, err))
		return nil
	}
	return entry
}

func (s *Session) finish(
	req domain.CompileRequest,
	key string,
	hash uint64,
	artifact domain.Artifact,
	attempts int,
) domain.CompileResult {
	res := domain.CompileResult{
		Artifact: artifact.Clone(),
		Key:      key,
		Hash:     hash,
		Attempts: attempts,
	}

	if err := s.store.Store(key, hash, artifact); err != nil {
		s.logger.Warn(fmt.Sprintf("compiled %s but could not cache it: %v", req.SourcePath, err))
		res.CacheErr = err
	}
	return res
}

func (s *Session) decide(ctx context.Context, f domain.Failure) (domain.Decision, error) {
	if err := ctx.Err(); err != nil {
		return domain.DecisionAbort, err
	}

	decision, err := s.decider.Decide(ctx, f)
	if err != nil {
		return domain.DecisionAbort, err
	}
	if ctx.Err() != nil {
		return domain.DecisionAbort, ctx.Err()
	}
	return decision, nil
}

func compileError(req domain.CompileRequest, diag *domain.Diagnostic) error {
	err := zerr.With(errors.Join(domain.ErrCompileFailed, diag), "source", req.SourcePath)
	return zerr.With(err, "entry_point", req.EntryPoint)
}

func compilerError(req domain.CompileRequest, cause error) error {
	err := zerr.With(errors.Join(domain.ErrCompilerFailed, cause), "source", req.SourcePath)
	return zerr.With(err, "profile", req.Profile)
}

func abortError(failed, decideErr error) error {
	if decideErr != nil {
		return errors.Join(domain.ErrCompileAborted, failed, decideErr)
	}
	return errors.Join(domain.ErrCompileAborted, failed)
}
