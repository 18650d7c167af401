package redis

import (
	"context"
	"testing"
	"time"

	"github.com/MrSnakeDoc/shelf/internal/config"
	"github.com/MrSnakeDoc/shelf/internal/logger"
)

func validOptions() ConnectOptions {
	return ConnectOptions{
		Addr:           "localhost:6379",
		ConnectTimeout: 30 * time.Second,
		RetryInterval:  2 * time.Second,
		MaxWait:        10 * time.Second,
		PingTimeout:    5 * time.Second,
		WarnThreshold:  3,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ConnectOptions)
		wantErr bool
	}{
		{"valid", func(*ConnectOptions) {}, false},
		{"missing addr", func(o *ConnectOptions) { o.Addr = "" }, true},
		{"zero connect timeout", func(o *ConnectOptions) { o.ConnectTimeout = 0 }, true},
		{"zero retry interval", func(o *ConnectOptions) { o.RetryInterval = 0 }, true},
		{"zero max wait", func(o *ConnectOptions) { o.MaxWait = 0 }, true},
		{"zero ping timeout", func(o *ConnectOptions) { o.PingTimeout = 0 }, true},
		{"negative warn threshold", func(o *ConnectOptions) { o.WarnThreshold = -1 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := validOptions()
			tt.mutate(&opts)
			if err := opts.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNextWait(t *testing.T) {
	tests := []struct {
		wait, max, want time.Duration
	}{
		{time.Second, 10 * time.Second, 2 * time.Second},
		{4 * time.Second, 10 * time.Second, 8 * time.Second},
		{8 * time.Second, 10 * time.Second, 10 * time.Second},
		{10 * time.Second, 10 * time.Second, 10 * time.Second},
	}
	for _, tt := range tests {
		if got := nextWait(tt.wait, tt.max); got != tt.want {
			t.Errorf("nextWait(%v, %v) = %v, want %v", tt.wait, tt.max, got, tt.want)
		}
	}
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := &config.Config{
		RedisAddr:           "redis:6379",
		RedisDB:             3,
		RedisPoolSize:       7,
		RedisConnectTimeout: time.Minute,
		RedisRetryInterval:  time.Second,
	}
	opts := OptionsFromConfig(cfg)
	if opts.Addr != "redis:6379" || opts.DB != 3 || opts.PoolSize != 7 {
		t.Errorf("OptionsFromConfig() = %+v", opts)
	}
	if opts.ConnectTimeout != time.Minute || opts.RetryInterval != time.Second {
		t.Errorf("retry settings not mapped: %+v", opts)
	}
}

func TestNewInvalidOptions(t *testing.T) {
	opts := validOptions()
	opts.PingTimeout = 0
	if _, err := New(context.Background(), opts, logger.NewNop()); err == nil {
		t.Error("New() with invalid options should return error")
	}
}

func TestNewUnreachable(t *testing.T) {
	opts := validOptions()
	opts.Addr = "127.0.0.1:1"
	opts.ConnectTimeout = 200 * time.Millisecond
	opts.RetryInterval = 50 * time.Millisecond
	opts.MaxWait = 100 * time.Millisecond
	opts.PingTimeout = 50 * time.Millisecond

	if _, err := New(context.Background(), opts, logger.NewNop()); err == nil {
		t.Error("New() against a closed port should return error")
	}
}
