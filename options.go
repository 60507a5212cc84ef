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
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

// A ClientOption is an option for a Client.
type ClientOption interface {
	apply(*clientSettings)
}

type clientSettings struct {
	region       string
	catalog      string
	pollInterval time.Duration
	credentials  aws.CredentialsProvider
	athena       AthenaAPI
	s3           S3API
}

type withRegion string

func (w withRegion) apply(s *clientSettings) { s.region = string(w) }

// WithRegion returns a ClientOption that overrides the region resolved from
// the environment.
func WithRegion(region string) ClientOption {
	return withRegion(region)
}

type withCatalog string

func (w withCatalog) apply(s *clientSettings) { s.catalog = string(w) }

// WithCatalog returns a ClientOption that sets the data catalog for metadata
// operations. The default is AwsDataCatalog.
func WithCatalog(name string) ClientOption {
	return withCatalog(name)
}

type withPollInterval time.Duration

func (w withPollInterval) apply(s *clientSettings) { s.pollInterval = time.Duration(w) }

// WithPollInterval returns a ClientOption that sets the pause between status
// polls while waiting for an execution to complete. Each pause is jittered:
// the actual pause is a random duration of up to d. The default is one
// second.
func WithPollInterval(d time.Duration) ClientOption {
	return withPollInterval(d)
}

type withCredentials struct{ p aws.CredentialsProvider }

func (w withCredentials) apply(s *clientSettings) { s.credentials = w.p }

// WithStaticCredentials returns a ClientOption that authenticates with a
// fixed key pair instead of the SDK default chain. sessionToken may be empty
// for long-lived credentials.
func WithStaticCredentials(accessKeyID, secretAccessKey, sessionToken string) ClientOption {
	return withCredentials{credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, sessionToken)}
}

// WithCredentialsProvider returns a ClientOption that authenticates with the
// given provider.
func WithCredentialsProvider(p aws.CredentialsProvider) ClientOption {
	return withCredentials{p}
}

type withAthenaClient struct{ api AthenaAPI }

func (w withAthenaClient) apply(s *clientSettings) { s.athena = w.api }

// WithAthenaClient returns a ClientOption that overrides the internal Athena
// client, for example to share a preconfigured *athena.Client across
// packages.
func WithAthenaClient(api AthenaAPI) ClientOption {
	return withAthenaClient{api}
}

type withS3Client struct{ api S3API }

func (w withS3Client) apply(s *clientSettings) { s.s3 = w.api }

// WithS3Client returns a ClientOption that overrides the internal S3 client
// used to retrieve result objects.
func WithS3Client(api S3API) ClientOption {
	return withS3Client{api}
}
