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
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/athena/types"
)

// Schema describes the fields of a table or view, in declaration order.
type Schema []*FieldSchema

// FieldSchema describes a single column or partition key.
type FieldSchema struct {
	// Name is the field name.
	Name string
	// Type is the field's data type as reported by the catalog, e.g.
	// "bigint" or "string".
	Type string
}

func schemaFromColumns(cols []types.Column) Schema {
	s := make(Schema, 0, len(cols))
	for _, col := range cols {
		s = append(s, &FieldSchema{
			Name: aws.ToString(col.Name),
			Type: aws.ToString(col.Type),
		})
	}
	return s
}

func fieldNames(cols []types.Column) []string {
	names := make([]string, 0, len(cols))
	for _, col := range cols {
		names = append(names, aws.ToString(col.Name))
	}
	return names
}
