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

package internal

import (
	"context"
	"errors"
	"testing"
	"time"

	gax "github.com/googleapis/gax-go/v2"
)

func TestPoll(t *testing.T) {
	ctx := context.Background()
	// Without a context deadline, poll will run until the function
	// says to stop.
	n := 0
	endPoll := errors.New("end poll")
	err := poll(ctx, gax.Backoff{},
		func() (bool, error) {
			n++
			if n < 10 {
				return false, nil
			}
			return true, endPoll
		},
		func(context.Context, time.Duration) error { return nil })
	if got, want := err, endPoll; got != want {
		t.Errorf("got %v, want %v", err, endPoll)
	}
	if n != 10 {
		t.Errorf("n: got %d, want %d", n, 10)
	}

	// If the context has a deadline, sleep will return an error
	// and end the function.
	n = 0
	err = poll(ctx, gax.Backoff{},
		func() (bool, error) { return false, nil },
		func(context.Context, time.Duration) error {
			n++
			if n < 10 {
				return nil
			}
			return context.DeadlineExceeded
		})
	if err == nil {
		t.Error("got nil, want error")
	}
}

func TestPollPreserveError(t *testing.T) {
	// Poll tries to preserve the type and other information from
	// the last error returned by the function.
	callErr := errors.New("query service unavailable")
	err := poll(context.Background(), gax.Backoff{},
		func() (bool, error) {
			return false, callErr
		},
		func(context.Context, time.Duration) error {
			return context.DeadlineExceeded
		})
	if err == nil {
		t.Fatalf("unexpectedly got nil error")
	}
	wantError := "poll failed with context deadline exceeded; last error: query service unavailable"
	if g, w := err.Error(), wantError; g != w {
		t.Errorf("got error %q, want %q", g, w)
	}
	if !errors.Is(err, callErr) {
		t.Errorf("errors.Is(err, callErr) = false, want true")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("errors.Is(err, context.DeadlineExceeded) = false, want true")
	}
}

func TestPollContextErrorOnly(t *testing.T) {
	// With no call error recorded, the context error comes back unwrapped.
	err := poll(context.Background(), gax.Backoff{},
		func() (bool, error) { return false, nil },
		func(context.Context, time.Duration) error {
			return context.Canceled
		})
	if got, want := err, context.Canceled; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}
