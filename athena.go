// Copyright 2026 Montoux Limited
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package athena

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/athena"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const (
	// defaultCatalog is the data catalog queried when no override is given.
	defaultCatalog = "AwsDataCatalog"

	defaultPollInterval = 1 * time.Second
)

// AthenaAPI is the subset of the Athena service surface used by this
// package. It is satisfied by *athena.Client.
type AthenaAPI interface {
	StartQueryExecution(ctx context.Context, in *athena.StartQueryExecutionInput, opts ...func(*athena.Options)) (*athena.StartQueryExecutionOutput, error)
	GetQueryExecution(ctx context.Context, in *athena.GetQueryExecutionInput, opts ...func(*athena.Options)) (*athena.GetQueryExecutionOutput, error)
	StopQueryExecution(ctx context.Context, in *athena.StopQueryExecutionInput, opts ...func(*athena.Options)) (*athena.StopQueryExecutionOutput, error)
	ListTableMetadata(ctx context.Context, in *athena.ListTableMetadataInput, opts ...func(*athena.Options)) (*athena.ListTableMetadataOutput, error)
	GetTableMetadata(ctx context.Context, in *athena.GetTableMetadataInput, opts ...func(*athena.Options)) (*athena.GetTableMetadataOutput, error)
}

// S3API is the subset of the S3 surface used to retrieve query results.
// It is satisfied by *s3.Client.
type S3API interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Client may be used to run Athena queries and inspect table metadata in a
// single database. All queries submitted through a Client run against the
// configured database and write their results beneath the configured output
// location.
//
// The Client holds no per-query state; the service is the system of record
// and every status read is a fresh fetch. Methods may be called concurrently.
type Client struct {
	database       string
	outputLocation string
	catalog        string
	pollInterval   time.Duration

	athena AthenaAPI
	s3     S3API
}

// NewClient constructs a new Client which runs queries against database and
// stores their results under outputLocation (an s3:// URI).
//
// Credentials and region are resolved through the SDK default chain unless
// overridden with options. Neither database nor outputLocation is validated
// against the service here; a bad value surfaces as a remote error on first
// use.
func NewClient(ctx context.Context, database, outputLocation string, opts ...ClientOption) (*Client, error) {
	if database == "" {
		return nil, errors.New("athena: database must be non-empty")
	}
	if outputLocation == "" {
		return nil, errors.New("athena: output location must be non-empty")
	}
	var s clientSettings
	for _, opt := range opts {
		opt.apply(&s)
	}
	c := &Client{
		database:       database,
		outputLocation: outputLocation,
		catalog:        defaultCatalog,
		pollInterval:   defaultPollInterval,
		athena:         s.athena,
		s3:             s.s3,
	}
	if s.catalog != "" {
		c.catalog = s.catalog
	}
	if s.pollInterval > 0 {
		c.pollInterval = s.pollInterval
	}
	if c.athena == nil || c.s3 == nil {
		var loadOpts []func(*config.LoadOptions) error
		if s.region != "" {
			loadOpts = append(loadOpts, config.WithRegion(s.region))
		}
		if s.credentials != nil {
			loadOpts = append(loadOpts, config.WithCredentialsProvider(s.credentials))
		}
		cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
		if err != nil {
			return nil, fmt.Errorf("athena: constructing client: %w", err)
		}
		if c.athena == nil {
			c.athena = athena.NewFromConfig(cfg)
		}
		if c.s3 == nil {
			c.s3 = s3.NewFromConfig(cfg)
		}
	}
	return c, nil
}

// Database returns the database this client queries.
func (c *Client) Database() string {
	return c.database
}

// OutputLocation returns the s3:// URI under which query results are written.
func (c *Client) OutputLocation() string {
	return c.outputLocation
}

// Close closes any resources held by the client.
// Close should be called when the client is no longer needed.
// It need not be called at program exit.
func (c *Client) Close() error {
	return nil
}

var _ AthenaAPI = (*athena.Client)(nil)
var _ S3API = (*s3.Client)(nil)
