package main

import "time"

type Config struct {
	BadgerFilepath  string        `env:"BADGER_FILEPATH,required=true"`
	BlugeFilepath   string        `env:"BLUGE_FILEPATH,required=true"`
	LogLevel        string        `env:"LOG_LEVEL,required=true"`
	Host            string        `env:"HOST,default=localhost"`
	Port            int           `env:"PORT,default=9090"`
	RestartInterval time.Duration `env:"RESTART_INTERVAL,default=200ms"`
	PollTimeout     time.Duration `env:"POLL_TIMEOUT,default=2s"`
	BatchLimit      int           `env:"BATCH_LIMIT,default=64"`
	MaxPollWait     time.Duration `env:"MAX_POLL_WAIT,default=30s"`
	IndexBuffer     int           `env:"INDEX_BUFFER,default=256"`
	HealthInterval  time.Duration `env:"HEALTH_INTERVAL,default=5s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT,default=5s"`
}
