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

// Package athena provides a client for running Athena queries and reading
// their results.
//
// The client wraps the two services involved in a query's lifecycle: the
// query service itself, which owns all execution state, and the object
// store where results are persisted as delimited files. Submitting a query
// yields an Execution handle; the handle only observes state, it never
// transitions it.
//
// Example usage:
//
//	ctx := context.Background()
//	client, err := athena.NewClient(ctx, "my_database", "s3://my-bucket/results/",
//		athena.WithRegion("ap-southeast-2"))
//	if err != nil {
//		// TODO: Handle error.
//	}
//	defer client.Close()
//
//	e, err := client.StartQuery(ctx, "SELECT id, name FROM users")
//	if err != nil {
//		// TODO: Handle error.
//	}
//
//	it, err := e.Read(ctx)
//	if err != nil {
//		// TODO: Handle error.
//	}
//	for {
//		var row []athena.Value
//		err := it.Next(&row)
//		if err == iterator.Done {
//			break
//		}
//		if err != nil {
//			// TODO: Handle error.
//		}
//		fmt.Println(row)
//	}
//
// Waiting calls (Execution.Wait, Execution.Read, Execution.Statistics,
// Client.Partitions) poll the service until the execution reaches a
// terminal state. They are bounded only by the provided context; attach a
// deadline to cap the wait:
//
//	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
//	defer cancel()
//	status, err := e.Wait(ctx)
//
// A query that completes unsuccessfully is reported as an *ExecutionError
// carrying the terminal state and the service's reason, so failure is
// distinguishable from an empty result:
//
//	it, err := e.Read(ctx)
//	var ee *athena.ExecutionError
//	if errors.As(err, &ee) {
//		log.Printf("query %s: %s", ee.State, ee.Reason)
//	}
package athena // import "github.com/montoux/athena"
