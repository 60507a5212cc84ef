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
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/athena"
	"github.com/aws/aws-sdk-go-v2/service/athena/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const testExecutionID = "11111111-2222-3333-4444-555555555555"

// fakeAthena implements AthenaAPI with scripted responses. Successive
// GetQueryExecution calls walk through states; the final state repeats.
type fakeAthena struct {
	mu sync.Mutex

	startInputs []*athena.StartQueryExecutionInput

	states         []types.QueryExecutionState
	stateIdx       int
	getCalls       int
	reason         string
	outputLocation string
	statistics     *types.QueryExecutionStatistics

	stopped []string

	tablePages [][]types.TableMetadata
	tableMD    *types.TableMetadata
}

var _ AthenaAPI = (*fakeAthena)(nil)

func (f *fakeAthena) StartQueryExecution(ctx context.Context, in *athena.StartQueryExecutionInput, _ ...func(*athena.Options)) (*athena.StartQueryExecutionOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.startInputs = append(f.startInputs, in)
	return &athena.StartQueryExecutionOutput{
		QueryExecutionId: aws.String(testExecutionID),
	}, nil
}

func (f *fakeAthena) GetQueryExecution(ctx context.Context, in *athena.GetQueryExecutionInput, _ ...func(*athena.Options)) (*athena.GetQueryExecutionOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	if len(f.states) == 0 {
		return nil, fmt.Errorf("fake: no states scripted")
	}
	state := f.states[f.stateIdx]
	if f.stateIdx < len(f.states)-1 {
		f.stateIdx++
	}
	qe := &types.QueryExecution{
		QueryExecutionId: in.QueryExecutionId,
		Status: &types.QueryExecutionStatus{
			State: state,
		},
	}
	if f.reason != "" {
		qe.Status.StateChangeReason = aws.String(f.reason)
	}
	switch state {
	case types.QueryExecutionStateSucceeded, types.QueryExecutionStateFailed, types.QueryExecutionStateCancelled:
		qe.Statistics = f.statistics
	}
	if state == types.QueryExecutionStateSucceeded {
		qe.ResultConfiguration = &types.ResultConfiguration{
			OutputLocation: aws.String(f.outputLocation),
		}
	}
	return &athena.GetQueryExecutionOutput{QueryExecution: qe}, nil
}

func (f *fakeAthena) StopQueryExecution(ctx context.Context, in *athena.StopQueryExecutionInput, _ ...func(*athena.Options)) (*athena.StopQueryExecutionOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = append(f.stopped, aws.ToString(in.QueryExecutionId))
	return &athena.StopQueryExecutionOutput{}, nil
}

func (f *fakeAthena) ListTableMetadata(ctx context.Context, in *athena.ListTableMetadataInput, _ ...func(*athena.Options)) (*athena.ListTableMetadataOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	page := 0
	if in.NextToken != nil {
		p, err := strconv.Atoi(aws.ToString(in.NextToken))
		if err != nil {
			return nil, fmt.Errorf("fake: bad token %q", aws.ToString(in.NextToken))
		}
		page = p
	}
	if page >= len(f.tablePages) {
		return &athena.ListTableMetadataOutput{}, nil
	}
	out := &athena.ListTableMetadataOutput{
		TableMetadataList: f.tablePages[page],
	}
	if page < len(f.tablePages)-1 {
		out.NextToken = aws.String(strconv.Itoa(page + 1))
	}
	return out, nil
}

func (f *fakeAthena) GetTableMetadata(ctx context.Context, in *athena.GetTableMetadataInput, _ ...func(*athena.Options)) (*athena.GetTableMetadataOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.tableMD == nil {
		return nil, fmt.Errorf("fake: no metadata for table %q", aws.ToString(in.TableName))
	}
	return &athena.GetTableMetadataOutput{TableMetadata: f.tableMD}, nil
}

// fakeS3 implements S3API over an in-memory bucket/key map.
type fakeS3 struct {
	mu       sync.Mutex
	objects  map[string]string // "bucket/key" -> content
	getCalls []string
}

var _ S3API = (*fakeS3)(nil)

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	name := aws.ToString(in.Bucket) + "/" + aws.ToString(in.Key)
	f.getCalls = append(f.getCalls, name)
	content, ok := f.objects[name]
	if !ok {
		return nil, fmt.Errorf("fake: no such object %q", name)
	}
	return &s3.GetObjectOutput{
		Body:          io.NopCloser(strings.NewReader(content)),
		ContentLength: aws.Int64(int64(len(content))),
	}, nil
}

func newTestClient(t *testing.T, fa *fakeAthena, fs *fakeS3) *Client {
	t.Helper()
	c, err := NewClient(context.Background(), "mydb", "s3://results-bucket/prefix/",
		WithAthenaClient(fa),
		WithS3Client(fs),
		WithPollInterval(time.Millisecond),
	)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}
