/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package redis

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"
)

const defaultPingTimeout = 15 * time.Second

type options struct {
	masterName     string
	password       string
	tlsConfig      *tls.Config
	pingTimeout    time.Duration
	tracerProvider trace.TracerProvider
}

// Opt configures the Redis client.
type Opt func(opts *options)

// WithTracerProvider instruments the client with tracing.
func WithTracerProvider(tracerProvider trace.TracerProvider) Opt {
	return func(opts *options) {
		opts.tracerProvider = tracerProvider
	}
}

// WithMasterName connects through Redis Sentinel to the given master.
func WithMasterName(masterName string) Opt {
	return func(opts *options) {
		opts.masterName = masterName
	}
}

func WithPassword(password string) Opt {
	return func(opts *options) {
		opts.password = password
	}
}

func WithTLSConfig(tlsConfig *tls.Config) Opt {
	return func(opts *options) {
		opts.tlsConfig = tlsConfig
	}
}

// WithPingTimeout bounds the connectivity check done by New.
func WithPingTimeout(timeout time.Duration) Opt {
	return func(opts *options) {
		opts.pingTimeout = timeout
	}
}

// Client is a Redis client shared by the distributed registry lockers.
type Client struct {
	client redis.UniversalClient
}

// New connects to Redis at addrs. A sentinel failover client is used when a master name is set,
// a cluster client for two or more addresses, a single node client otherwise.
func New(addrs []string, opts ...Opt) (*Client, error) {
	o := &options{
		pingTimeout: defaultPingTimeout,
	}

	for _, opt := range opts {
		opt(o)
	}

	if len(addrs) == 0 {
		return nil, fmt.Errorf("redis address is required")
	}

	client := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:                 addrs,
		ContextTimeoutEnabled: true,
		MasterName:            o.masterName,
		Password:              o.password,
		TLSConfig:             o.tlsConfig,
	})

	if o.tracerProvider != nil {
		if err := redisotel.InstrumentTracing(client, redisotel.WithTracerProvider(o.tracerProvider)); err != nil {
			return nil, fmt.Errorf("instrument redis client with tracing: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), o.pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()

		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{client: client}, nil
}

// API returns the underlying client.
func (c *Client) API() redis.UniversalClient {
	return c.client
}

func (c *Client) Close() error {
	return c.client.Close()
}
