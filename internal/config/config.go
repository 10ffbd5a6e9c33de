package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Service holds process-level settings shared by every entrypoint.
type Service struct {
	Environment string `envconfig:"SERVICE_ENVIRONMENT" default:"development"`
}

// AWS holds optional overrides for local development. When Endpoint is
// set, clients are pointed at it with static dummy credentials
// (LocalStack, ElasticMQ). The region never comes from the environment;
// it is part of every export request.
type AWS struct {
	Endpoint string `envconfig:"AWS_ENDPOINT_URL"`
}

// Worker configures the SQS-driven invocation surface.
type Worker struct {
	QueueURL        string `envconfig:"WORKER_QUEUE_URL"`
	QueueRegion     string `envconfig:"WORKER_QUEUE_REGION"`
	WaitTimeSeconds int32  `envconfig:"WORKER_WAIT_TIME_SECONDS" default:"20"`
}

type Config struct {
	Service Service
	AWS     AWS
	Worker  Worker
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
