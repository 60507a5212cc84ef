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
	"bufio"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/athena"
	"github.com/aws/aws-sdk-go-v2/service/athena/types"

	"github.com/montoux/athena/internal/trace"
)

const (
	tableTypeExternal = "EXTERNAL_TABLE"
	tableTypeView     = "VIRTUAL_VIEW"
)

// ExternalTables returns the names of all external tables in the client's
// database, in the order the service returns them.
func (c *Client) ExternalTables(ctx context.Context) ([]string, error) {
	return c.tablesOfType(ctx, tableTypeExternal)
}

// Views returns the names of all views in the client's database, in the
// order the service returns them.
func (c *Client) Views(ctx context.Context) ([]string, error) {
	return c.tablesOfType(ctx, tableTypeView)
}

func (c *Client) tablesOfType(ctx context.Context, tableType string) ([]string, error) {
	var names []string
	var token *string
	for {
		sCtx := trace.StartSpan(ctx, "athena.ListTableMetadata")
		out, err := c.athena.ListTableMetadata(sCtx, &athena.ListTableMetadataInput{
			CatalogName:  aws.String(c.catalog),
			DatabaseName: aws.String(c.database),
			NextToken:    token,
		})
		trace.EndSpan(sCtx, err)
		if err != nil {
			return nil, err
		}
		for _, tm := range out.TableMetadataList {
			if aws.ToString(tm.TableType) == tableType {
				names = append(names, aws.ToString(tm.Name))
			}
		}
		if out.NextToken == nil {
			return names, nil
		}
		token = out.NextToken
	}
}

func (c *Client) tableMetadata(ctx context.Context, table string) (*types.TableMetadata, error) {
	sCtx := trace.StartSpan(ctx, "athena.GetTableMetadata")
	out, err := c.athena.GetTableMetadata(sCtx, &athena.GetTableMetadataInput{
		CatalogName:  aws.String(c.catalog),
		DatabaseName: aws.String(c.database),
		TableName:    aws.String(table),
	})
	trace.EndSpan(sCtx, err)
	if err != nil {
		return nil, err
	}
	if out.TableMetadata == nil {
		return nil, fmt.Errorf("athena: table %s: service returned no metadata", table)
	}
	return out.TableMetadata, nil
}

// Columns returns the column names of table, in declaration order.
func (c *Client) Columns(ctx context.Context, table string) ([]string, error) {
	md, err := c.tableMetadata(ctx, table)
	if err != nil {
		return nil, err
	}
	return fieldNames(md.Columns), nil
}

// Schema returns the column schema of table, in declaration order.
func (c *Client) Schema(ctx context.Context, table string) (Schema, error) {
	md, err := c.tableMetadata(ctx, table)
	if err != nil {
		return nil, err
	}
	return schemaFromColumns(md.Columns), nil
}

// PartitionColumns returns the partition key names of table, in declaration
// order.
func (c *Client) PartitionColumns(ctx context.Context, table string) ([]string, error) {
	md, err := c.tableMetadata(ctx, table)
	if err != nil {
		return nil, err
	}
	return fieldNames(md.PartitionKeys), nil
}

// PartitionSchema returns the partition key schema of table, in declaration
// order.
func (c *Client) PartitionSchema(ctx context.Context, table string) (Schema, error) {
	md, err := c.tableMetadata(ctx, table)
	if err != nil {
		return nil, err
	}
	return schemaFromColumns(md.PartitionKeys), nil
}

// Partitions enumerates the partitions of table. Partition enumeration is
// not a metadata read: the client runs `show partitions <table>` and reads
// the raw result object, yielding one partition identifier per line (for
// example "year=2024/month=06").
//
// Partitions waits for the enumeration query to complete; the wait is
// bounded only by ctx. A failed or cancelled query yields an
// *ExecutionError.
func (c *Client) Partitions(ctx context.Context, table string) ([]string, error) {
	e, err := c.StartQuery(ctx, "show partitions "+table)
	if err != nil {
		return nil, err
	}
	s, err := e.Wait(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	body, err := c.fetchObject(ctx, s.outputLocation)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var partitions []string
	scanner := bufio.NewScanner(body)
	for scanner.Scan() {
		partitions = append(partitions, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("athena: reading partitions of %s: %w", table, err)
	}
	return partitions, nil
}
