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

import "testing"

func TestDescendMode(t *testing.T) {
	cases := []struct {
		child NodeType
		want  mode
	}{
		{HeadlineType, modeSection},
		{inlinetaskType, modePlanning},
		{PlainListType, modeItem},
		{propertyDrawerType, modeNodeProperty},
		{SectionType, modePlanning},
		{tableType, modeTableRow},
		{ParagraphType, modeNone},
	}
	for _, c := range cases {
		if got := descendMode(c.child); got != c.want {
			t.Errorf("descendMode(%v) = %v, want %v", c.child, got, c.want)
		}
	}
}

func TestRestrictionFor(t *testing.T) {
	if restrictionFor(ParagraphType)&objLink == 0 {
		t.Error("restrictionFor(ParagraphType) should permit links")
	}
	if restrictionNoLink()&objLink != 0 {
		t.Error("restrictionNoLink() should not permit links")
	}
	if restrictionAll()&objText == 0 || restrictionAll()&objLink == 0 {
		t.Error("restrictionAll() should permit both text and links")
	}
}
