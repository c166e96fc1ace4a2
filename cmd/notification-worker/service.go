package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/grambazaar/storefront-backend/pkg/logger"
	"github.com/grambazaar/storefront-backend/pkg/redis"
)

const heartbeatInterval = 30 * time.Second

type queueRunner interface {
	Run(ctx context.Context) error
}

type ServiceParams struct {
	Logger *logger.Logger
	Redis  redis.Pinger
	Worker queueRunner
}

// Service drains the notification queue until its context ends.
type Service struct {
	logg   *logger.Logger
	redis  redis.Pinger
	worker queueRunner
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if params.Redis == nil {
		return nil, errors.New("redis client is required")
	}
	if params.Worker == nil {
		return nil, errors.New("notification worker is required")
	}
	return &Service{
		logg:   params.Logger,
		redis:  params.Redis,
		worker: params.Worker,
	}, nil
}

func (s *Service) ensureReadiness(ctx context.Context) error {
	if err := pingDependency(ctx, s.logg, "redis", s.redis.Ping); err != nil {
		return err
	}
	s.logg.Info(ctx, "notification_worker.ready")
	return nil
}

func pingDependency(ctx context.Context, logg *logger.Logger, name string, fn func(context.Context) error) error {
	if err := fn(ctx); err != nil {
		logg.Error(ctx, fmt.Sprintf("%s ping failed", name), err)
		return fmt.Errorf("%s ping failed: %w", name, err)
	}
	return nil
}

func (s *Service) Run(ctx context.Context) error {
	if err := s.ensureReadiness(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.worker.Run(ctx)
	}()

	for {
		select {
		case <-ctx.Done():
			s.logg.Info(ctx, "notification_worker.stopping")
			// wait for the in-flight message before returning
			err := <-errCh
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		case err := <-errCh:
			if err != nil && !errors.Is(err, context.Canceled) {
				s.logg.Error(ctx, "notification_worker.stopped", err)
				return err
			}
			return nil
		case <-ticker.C:
			s.logg.Debug(ctx, "notification_worker.heartbeat")
		}
	}
}
