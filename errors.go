// Copyright 2023 Ross Light
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//		 https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package orgparse

import "fmt"

// dumpLimit bounds how much of the remaining input an [InternalError]
// carries, so a pathological panic doesn't drag megabytes of text into a
// stack trace.
const dumpLimit = 80

// InternalError is raised, via panic, when the parser detects that it has
// violated one of its own invariants: the progress guard failed, a list
// structure entry could not be found for the current offset, or a regular
// expression that matched during scanning failed to match again during
// extraction. InternalError must never occur on valid input; when it does,
// it indicates a bug in this package, not in the document being parsed.
type InternalError struct {
	// Offset is the Reader position at the time the invariant was found
	// to be violated.
	Offset int
	// Reason describes what invariant was violated.
	Reason string
	// Dump is a bounded prefix of the remaining visible input at Offset.
	Dump string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("orgparse: internal error at offset %d: %s (remaining: %q)", e.Offset, e.Reason, e.Dump)
}

// internalErrorf builds an *InternalError anchored at r's current offset.
func internalErrorf(r *Reader, format string, args ...any) *InternalError {
	rest := r.Rest()
	if len(rest) > dumpLimit {
		rest = rest[:dumpLimit]
	}
	return &InternalError{
		Offset: r.Offset(),
		Reason: fmt.Sprintf(format, args...),
		Dump:   string(rest),
	}
}

// panicInternal raises an *InternalError. Callers use this exactly where
// spec.md §7.1 says a programmer error has been detected: conditions that
// must never occur on valid input.
func panicInternal(r *Reader, format string, args ...any) {
	panic(internalErrorf(r, format, args...))
}
