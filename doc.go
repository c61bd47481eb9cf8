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

// Package orgparse parses an outline-oriented plain text markup format
// into a position-annotated abstract syntax tree.
//
// The grammar has three strata: greater elements (org-data, headline,
// section, plain-list, item) that contain other elements; elements
// (paragraph, comment, keyword) that contain only objects; and objects
// (link, text) that are inline. Every greater element and element node
// carries the byte offsets of its content within the original buffer, so
// callers can recover any node's source text with Substring.
//
// Parse is forgiving: malformed input never produces an error. Every
// element-level dispatch falls through to a paragraph, which always
// succeeds. Only a bug in the parser itself — not in the input — raises
// an *InternalError.
package orgparse
