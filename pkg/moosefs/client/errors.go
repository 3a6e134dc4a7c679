/*
Copyright 2024 The Rook Authors. All rights reserved.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package client

import (
	"fmt"

	"github.com/pkg/errors"
)

const (
	masterRecord      = "master"
	chunkserverRecord = "chunkserver"
)

// ErrFieldCount is wrapped by every ParseError caused by a line with too few fields
var ErrFieldCount = errors.New("unexpected field count")

// ErrInvalidUTF8 is wrapped by every ParseError caused by a line that is not valid UTF-8
var ErrInvalidUTF8 = errors.New("line is not valid UTF-8")

// ParseError describes a line of mfscli output that could not be decoded
type ParseError struct {
	// Record is the kind of record, "master" or "chunkserver"
	Record string
	// Field is the name of the field that failed to decode, empty for field count errors
	Field string
	// Line is the raw offending line
	Line string
	Err  error
}

func newFieldCountError(record, line string, expected, actual int) *ParseError {
	return &ParseError{
		Record: record,
		Line:   line,
		Err:    errors.Wrapf(ErrFieldCount, "expected at least %d fields, got %d", expected, actual),
	}
}

func newFieldError(record, field, line string, err error) *ParseError {
	return &ParseError{Record: record, Field: field, Line: line, Err: err}
}

func (e *ParseError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("failed to parse %s record: %v. line: %q", e.Record, e.Err, e.Line)
	}
	return fmt.Sprintf("failed to parse %s record field %q: %v. line: %q", e.Record, e.Field, e.Err, e.Line)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
