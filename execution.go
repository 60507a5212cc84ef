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

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/athena"
	"github.com/aws/aws-sdk-go-v2/service/athena/types"
	"github.com/google/uuid"
	gax "github.com/googleapis/gax-go/v2"

	"github.com/montoux/athena/internal"
	"github.com/montoux/athena/internal/trace"
)

// An Execution represents a query which has been submitted to the service
// for processing. The service owns all execution state; an Execution holds
// only the identifier and re-fetches on every read.
type Execution struct {
	c  *Client
	id string
}

// StartQuery submits query for execution against the client's database and
// returns a handle to the new execution. The query text is not validated
// locally; a syntax error surfaces later as a Failed state with a reason.
func (c *Client) StartQuery(ctx context.Context, query string) (*Execution, error) {
	if query == "" {
		return nil, errors.New("athena: query must be non-empty")
	}
	sCtx := trace.StartSpan(ctx, "athena.StartQueryExecution")
	out, err := c.athena.StartQueryExecution(sCtx, &athena.StartQueryExecutionInput{
		QueryString: aws.String(query),
		// A client-generated token makes resubmission of the same request
		// idempotent on the service side.
		ClientRequestToken: aws.String(uuid.NewString()),
		QueryExecutionContext: &types.QueryExecutionContext{
			Catalog:  aws.String(c.catalog),
			Database: aws.String(c.database),
		},
		ResultConfiguration: &types.ResultConfiguration{
			OutputLocation: aws.String(c.outputLocation),
		},
	})
	trace.EndSpan(sCtx, err)
	if err != nil {
		return nil, err
	}
	return &Execution{c: c, id: aws.ToString(out.QueryExecutionId)}, nil
}

// ExecutionFromID creates an Execution which refers to an existing query
// execution. The execution need not have been submitted by this client; for
// example, it may have been started from the service console.
func (c *Client) ExecutionFromID(id string) *Execution {
	return &Execution{c: c, id: id}
}

// ID returns the service-assigned execution identifier.
func (e *Execution) ID() string {
	return e.id
}

// State is one of a sequence of states that an Execution progresses through
// as it is processed. The client only ever observes states; all transitions
// happen on the service.
type State string

const (
	Queued    State = "QUEUED"
	Running   State = "RUNNING"
	Succeeded State = "SUCCEEDED"
	Failed    State = "FAILED"
	Cancelled State = "CANCELLED"
)

// Terminal reports whether no further transitions can occur from s.
func (s State) Terminal() bool {
	switch s {
	case Succeeded, Failed, Cancelled:
		return true
	}
	return false
}

// Status contains the observed state of an execution, and the reason for
// its most recent transition.
type Status struct {
	State State

	// Reason is the human-readable cause of the last state change. It is
	// empty before any transition has occurred, and may be stale between
	// transitions.
	Reason string

	// Statistics is populated only once the execution is terminal.
	Statistics *Statistics

	id             string
	outputLocation string
}

// Done reports whether the execution has reached a terminal state.
// After Done returns true, the Err method will return an error if the
// execution completed unsuccessfully.
func (s *Status) Done() bool {
	return s.State.Terminal()
}

// Err returns the error that caused the execution to complete unsuccessfully
// (if any). A failed or cancelled execution yields an *ExecutionError.
func (s *Status) Err() error {
	switch s.State {
	case Failed, Cancelled:
		return &ExecutionError{ID: s.id, State: s.State, Reason: s.Reason}
	}
	return nil
}

// An ExecutionError reports an execution which reached a terminal state
// other than Succeeded.
type ExecutionError struct {
	ID     string
	State  State
	Reason string
}

func (e *ExecutionError) Error() string {
	msg := fmt.Sprintf("athena: execution %s: query %s", e.ID, stateName(e.State))
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func stateName(s State) string {
	switch s {
	case Failed:
		return "failed"
	case Cancelled:
		return "cancelled"
	}
	return string(s)
}

// ErrIncomplete is returned by TryRead when the execution has not yet
// reached a terminal state.
var ErrIncomplete = errors.New("athena: execution has not completed")

// Status returns the current status of the execution with a single remote
// fetch; it never waits.
func (e *Execution) Status(ctx context.Context) (*Status, error) {
	sCtx := trace.StartSpan(ctx, "athena.GetQueryExecution")
	out, err := e.c.athena.GetQueryExecution(sCtx, &athena.GetQueryExecutionInput{
		QueryExecutionId: aws.String(e.id),
	})
	trace.EndSpan(sCtx, err)
	if err != nil {
		return nil, err
	}
	if out.QueryExecution == nil {
		return nil, fmt.Errorf("athena: execution %s: service returned no execution", e.id)
	}
	return statusFromExecution(out.QueryExecution), nil
}

func statusFromExecution(qe *types.QueryExecution) *Status {
	s := &Status{id: aws.ToString(qe.QueryExecutionId)}
	if qs := qe.Status; qs != nil {
		s.State = State(qs.State)
		s.Reason = aws.ToString(qs.StateChangeReason)
	}
	if s.Done() {
		s.Statistics = statisticsFromAPI(qe.Statistics)
	}
	// The output location is meaningful only for a successful execution;
	// it is never surfaced in any other state.
	if s.State == Succeeded && qe.ResultConfiguration != nil {
		s.outputLocation = aws.ToString(qe.ResultConfiguration.OutputLocation)
	}
	return s
}

// StatusMessage returns the reason for the execution's most recent state
// transition with a single remote fetch. It does not wait for a terminal
// state, so the reason may be empty or stale.
func (e *Execution) StatusMessage(ctx context.Context) (string, error) {
	s, err := e.Status(ctx)
	if err != nil {
		return "", err
	}
	return s.Reason, nil
}

// Wait blocks until the execution reaches a terminal state, polling the
// service at the client's poll interval, and returns the terminal status.
// The wait is bounded only by ctx: cancel it or attach a deadline to stop
// early.
func (e *Execution) Wait(ctx context.Context) (*Status, error) {
	var status *Status
	err := internal.Poll(ctx, e.c.pollBackoff(), func() (stop bool, err error) {
		s, err := e.Status(ctx)
		if err != nil {
			return true, err
		}
		status = s
		if !s.Done() {
			trace.TracePrintf(ctx, map[string]interface{}{"state": string(s.State)}, "athena.Execution.Wait")
			return false, nil
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return status, nil
}

func (c *Client) pollBackoff() gax.Backoff {
	return gax.Backoff{
		Initial:    c.pollInterval,
		Max:        c.pollInterval,
		Multiplier: 1,
	}
}

// Cancel requests that the execution be cancelled. This method returns
// without waiting for cancellation to take effect; observe the transition
// with Status or Wait.
func (e *Execution) Cancel(ctx context.Context) error {
	sCtx := trace.StartSpan(ctx, "athena.StopQueryExecution")
	_, err := e.c.athena.StopQueryExecution(sCtx, &athena.StopQueryExecutionInput{
		QueryExecutionId: aws.String(e.id),
	})
	trace.EndSpan(sCtx, err)
	return err
}

// Statistics contains the execution statistics reported by the service once
// a query reaches a terminal state.
type Statistics struct {
	// EngineExecutionTime is the time the query spent executing.
	EngineExecutionTime time.Duration
	// QueryQueueTime is the time the query waited for resources.
	QueryQueueTime time.Duration
	// QueryPlanningTime is the time spent planning the query.
	QueryPlanningTime time.Duration
	// ServiceProcessingTime is the time the service spent finalizing the
	// results after the engine finished.
	ServiceProcessingTime time.Duration
	// TotalExecutionTime is the end-to-end time from submission to
	// completion.
	TotalExecutionTime time.Duration
	// DataScannedBytes is the number of bytes the query read from storage.
	DataScannedBytes int64
	// DataManifestLocation is the location of the manifest file written for
	// INSERT INTO and CTAS queries, if any.
	DataManifestLocation string
}

// Statistics blocks until the execution reaches a terminal state and
// returns its statistics. The service reports statistics for successful and
// failed executions; for a cancelled execution Statistics returns nil.
func (e *Execution) Statistics(ctx context.Context) (*Statistics, error) {
	s, err := e.Wait(ctx)
	if err != nil {
		return nil, err
	}
	switch s.State {
	case Succeeded, Failed:
		return s.Statistics, nil
	}
	return nil, nil
}

func statisticsFromAPI(qs *types.QueryExecutionStatistics) *Statistics {
	if qs == nil {
		return nil
	}
	return &Statistics{
		EngineExecutionTime:   millisToDuration(aws.ToInt64(qs.EngineExecutionTimeInMillis)),
		QueryQueueTime:        millisToDuration(aws.ToInt64(qs.QueryQueueTimeInMillis)),
		QueryPlanningTime:     millisToDuration(aws.ToInt64(qs.QueryPlanningTimeInMillis)),
		ServiceProcessingTime: millisToDuration(aws.ToInt64(qs.ServiceProcessingTimeInMillis)),
		TotalExecutionTime:    millisToDuration(aws.ToInt64(qs.TotalExecutionTimeInMillis)),
		DataScannedBytes:      aws.ToInt64(qs.DataScannedInBytes),
		DataManifestLocation:  aws.ToString(qs.DataManifestLocation),
	}
}

// Convert a number of milliseconds to a time.Duration.
func millisToDuration(m int64) time.Duration {
	return time.Duration(m) * time.Millisecond
}
