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

import "context"

// Parse parses text into a document tree. It never returns a non-nil
// error for malformed input: outline markup is forgiving by design, and
// anything the parser doesn't recognize as a more specific element ends
// up as a paragraph or as literal text. A non-nil error indicates either
// that ctx was canceled (ParseContext) or that the parser itself
// violated one of its invariants ([*InternalError]), which should be
// reported as a bug in this package.
//
// opts may be nil, which is equivalent to passing &Options{}.
func Parse(text []byte, opts *Options) (*OrgData, error) {
	return ParseContext(context.Background(), text, opts)
}

// ParseContext is Parse with cancellation: ctx is checked cooperatively
// at the top of the recursive element and object parsing loops, so a
// canceled context interrupts a parse of a large document promptly
// instead of only being checked once per call.
func ParseContext(ctx context.Context, text []byte, opts *Options) (data *OrgData, err error) {
	if opts == nil {
		opts = &Options{}
	}
	p := &parser{r: NewReader(text), ctx: ctx, opts: opts}

	defer func() {
		rec := recover()
		if rec == nil {
			return
		}
		switch v := rec.(type) {
		case ctxCancel:
			data, err = nil, v.err
		case *InternalError:
			data, err = nil, v
		default:
			panic(rec)
		}
	}()

	data = p.parseDocument()
	return data, nil
}
