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

// mode selects which subset of greater elements parseElements is willing
// to recognize at a given nesting point (spec.md §4.3.1). It exists
// because, for instance, a node-property line is only a node-property
// inside a property drawer's mode, not inside a section's. In this
// package only modeItem changes what parseElement dispatches to; every
// other mode shares one element set.
type mode uint8

const (
	modeNone mode = iota
	modeFirstSection
	modeSection
	modeItem
	modeNodeProperty
	modePlanning
	modePropertyDrawer
	modeTableRow
	// modeTopComment is the one mode that does not correspond to a single
	// table cell: it is entered only by parseFirstSection recursing into
	// its own Section body. parseElement recognizes the same elements
	// (comments included) in modeTopComment as in modeSection.
	modeTopComment
)

// descendMode returns the mode that parseElements should use while
// parsing the children of a greater element whose own children are of
// childType, per spec.md §4.3.1's descend-mode table. It is keyed purely
// by the child's type; the one context-sensitive exception
// (first-section + section composing into modeTopComment) is handled by
// the caller, parseFirstSection, rather than threaded through this
// function.
func descendMode(childType NodeType) mode {
	switch childType {
	case HeadlineType:
		return modeSection
	case inlinetaskType:
		return modePlanning
	case PlainListType:
		return modeItem
	case propertyDrawerType:
		return modeNodeProperty
	case SectionType:
		return modePlanning
	case tableType:
		return modeTableRow
	default:
		return modeNone
	}
}

// siblingMode returns the mode that should be used to look for the next
// sibling after a node of type childType was just parsed under m, per
// spec.md §4.3.1's sibling-mode table: item, node-property and table-row
// modes persist; planning followed by a planning child, and top-comment
// followed by a comment child, move to property-drawer mode; everything
// else falls back to the default mode.
func siblingMode(m mode, childType NodeType) mode {
	switch {
	case m == modeItem, m == modeNodeProperty, m == modeTableRow:
		return m
	case m == modePlanning && childType == planningType:
		return modePropertyDrawer
	case m == modeTopComment && childType == CommentType:
		return modePropertyDrawer
	default:
		return modeNone
	}
}
