package worker

import (
	"errors"

	"storefront-be/internal/queue"

	"github.com/hibiken/asynq"
)

// Service runs the asynq server that drains the task queue.
type Service struct {
	server *asynq.Server
	mux    *asynq.ServeMux
}

func NewService(opts queue.Options, consumer *Consumer) (*Service, error) {
	if !opts.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}

	redisOpt, serverCfg := queue.BuildServerConfig(opts)
	mux := asynq.NewServeMux()
	consumer.Register(mux)

	return &Service{
		server: asynq.NewServer(redisOpt, serverCfg),
		mux:    mux,
	}, nil
}

// Start blocks until the server stops or fails to start.
func (s *Service) Start() error {
	if s == nil || s.server == nil {
		return errors.New("worker not initialized")
	}
	return s.server.Run(s.mux)
}

func (s *Service) Stop() {
	if s == nil || s.server == nil {
		return
	}
	s.server.Shutdown()
}
