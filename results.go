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
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/montoux/athena/internal/trace"
)

// ResultLocation returns the s3:// URI of the execution's result object. It
// performs a single status fetch and returns the empty string unless that
// fetch observes a successful completion; it never waits.
func (e *Execution) ResultLocation(ctx context.Context) (string, error) {
	s, err := e.Status(ctx)
	if err != nil {
		return "", err
	}
	return s.outputLocation, nil
}

// Read waits for the execution to complete and returns an iterator over its
// result rows. The result object is fetched from storage exactly once, when
// Read returns. If the execution fails or is cancelled, Read returns the
// corresponding *ExecutionError.
//
// The wait is bounded only by ctx, like Wait.
func (e *Execution) Read(ctx context.Context) (*RowIterator, error) {
	s, err := e.Wait(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return e.c.readResult(ctx, s.outputLocation)
}

// TryRead is the non-blocking variant of Read. It performs a single status
// fetch and returns ErrIncomplete while the execution is still queued or
// running, an *ExecutionError if it failed or was cancelled, and the result
// iterator once it has succeeded.
func (e *Execution) TryRead(ctx context.Context) (*RowIterator, error) {
	s, err := e.Status(ctx)
	if err != nil {
		return nil, err
	}
	if !s.Done() {
		return nil, ErrIncomplete
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return e.c.readResult(ctx, s.outputLocation)
}

func (c *Client) readResult(ctx context.Context, location string) (*RowIterator, error) {
	body, err := c.fetchObject(ctx, location)
	if err != nil {
		return nil, err
	}
	return newRowIterator(body), nil
}

// fetchObject retrieves the raw result object named by an s3:// URI. The
// caller owns the returned body.
func (c *Client) fetchObject(ctx context.Context, location string) (io.ReadCloser, error) {
	bucket, key, err := parseStorageURI(location)
	if err != nil {
		return nil, err
	}
	sCtx := trace.StartSpan(ctx, "athena.GetObject")
	out, err := c.s3.GetObject(sCtx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	trace.EndSpan(sCtx, err)
	if err != nil {
		return nil, err
	}
	return out.Body, nil
}

// parseStorageURI splits an s3:// URI into its bucket and key. The service
// is expected to always hand back a well-formed URI, but a malformed one is
// reported as an error rather than a bad split.
func parseStorageURI(uri string) (bucket, key string, err error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", "", fmt.Errorf("athena: parse result location %q: %w", uri, err)
	}
	if u.Scheme != "s3" {
		return "", "", fmt.Errorf("athena: result location %q: expected s3:// scheme, got %q", uri, u.Scheme)
	}
	bucket = u.Host
	key = strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("athena: result location %q: missing bucket or key", uri)
	}
	return bucket, key, nil
}
