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

import "strings"

// parseObjects parses the visible window at the cursor as a run of
// objects under restr, returning the resulting nodes in document order.
// It always leaves the cursor at the visible end: every byte in the
// window is consumed either by a recognized object or as literal text,
// and literal spans that hold only whitespace are dropped (see
// appendText).
func (p *parser) parseObjects(restr restriction) []Node {
	r := p.r
	var out []Node
	for !r.EOF() {
		p.checkContext()

		nextAbs := r.EndOffset()
		if m := r.Match(objectStartRE); m != nil {
			nextAbs = r.Offset() + m.Index
		}
		if nextAbs > r.Offset() {
			begin := r.Offset()
			r.ResetOffset(nextAbs)
			out = appendText(out, r, begin, nextAbs)
		}
		if r.EOF() {
			break
		}

		node := p.parseObjectAt(restr)
		if node.IsZero() {
			begin := r.Offset()
			r.Advance(1)
			out = appendText(out, r, begin, r.Offset())
			continue
		}
		out = append(out, node)
	}
	return out
}

// appendText appends a Text node spanning [begin, end) to out, or
// returns out unchanged if the span is empty or holds only whitespace —
// spec.md §7.2 elides text nodes that would be all-whitespace at
// object-parse time, e.g. a bracket link's single-space description.
func appendText(out []Node, r *Reader, begin, end int) []Node {
	if begin >= end {
		return out
	}
	span := r.Substring(begin, end)
	if isBlankLine(span) {
		return out
	}
	t := &Text{Value: string(span), Start: begin, End: end}
	return append(out, t.AsNode())
}

// parseObjectAt tries to parse one object at the cursor, trying every
// object type objectStartRE could have found a candidate for. It returns
// the zero Node if none actually match, in which case the caller treats
// the byte at the cursor as literal text and resumes searching just past
// it — objectStartRE is intentionally loose, so a false positive (e.g. a
// "[[" that doesn't open a well-formed bracket link, or any candidate
// when restr excludes links) is expected, not a bug.
func (p *parser) parseObjectAt(restr restriction) Node {
	if restr&objLink != 0 {
		if node, ok := p.tryParseBracketLink(); ok {
			return node
		}
		if node, ok := p.tryParsePlainLink(); ok {
			return node
		}
	}
	return Node{}
}

// tryParseBracketLink recognizes a [[TARGET]] or [[TARGET][DESCRIPTION]]
// link anchored at the cursor.
func (p *parser) tryParseBracketLink() (Node, bool) {
	r := p.r
	m := r.Match(bracketLinkRE)
	if m == nil {
		return Node{}, false
	}
	targetRaw, _ := m.Group("target")
	target := unescapeBrackets(targetRaw)
	descBegin, descEnd, hasDesc := m.GroupRange("desc")

	start := r.Offset()
	r.AdvanceMatch(m)
	end := r.Offset()

	linkType, rawLink := classifyLinkTarget(target)

	var children []Node
	if hasDesc {
		r.Narrow(descBegin, descEnd)
		children = p.parseObjects(restrictionNoLink())
		r.Widen(false)
	}

	link := &Link{LinkType: linkType, RawLink: rawLink, Start: start, End: end, Children: children}
	return link.AsNode(), true
}

// tryParsePlainLink recognizes a bare SCHEME:NON_WHITESPACE+ link
// anchored at the cursor.
func (p *parser) tryParsePlainLink() (Node, bool) {
	r := p.r
	m := r.Match(plainLinkRE)
	if m == nil {
		return Node{}, false
	}
	scheme, _ := m.Group("scheme")
	start := r.Offset()
	r.AdvanceMatch(m)
	end := r.Offset()

	link := &Link{LinkType: scheme, RawLink: string(r.Substring(start, end)), Start: start, End: end}
	return link.AsNode(), true
}

// classifyLinkTarget splits a bracket link's unescaped target into a
// link type and raw link, mirroring how a plain link's scheme is
// extracted: if target starts with "SCHEME:" for a syntactically valid
// scheme name, that's the link type; otherwise the link has no
// recognized scheme and is classified as "fuzzy".
func classifyLinkTarget(target string) (linkType, rawLink string) {
	if i := strings.IndexByte(target, ':'); i > 0 && schemeNameRE.MatchString(target[:i]) {
		return target[:i], target
	}
	return "fuzzy", target
}
