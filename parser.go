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

import (
	"context"
	"fmt"
	"regexp"
)

// parser holds the state threaded through a single Parse/ParseContext
// call: the Reader it's consuming, the cancellation context, the
// options in effect, and two small caches that exist purely to avoid
// redundant work within one parse (they are never shared across calls).
type parser struct {
	r    *Reader
	ctx  context.Context
	opts *Options

	// listStructure is the list structure vector for whichever plain
	// list is currently being descended into. It is set once, by the
	// outermost parseList call for a given list, and shared unchanged
	// with every nested sublist's parseList call so that the structure
	// scan happens exactly once per top-level list, per spec.md §4.3.3.
	listStructure []*ItemDescriptor

	// boundaryCache memoizes the per-level "next heading at this level
	// or shallower" regex, since a deeply nested document can otherwise
	// recompile the same pattern once per headline.
	boundaryCache map[int]*regexp.Regexp
}

// ctxCancel is the panic value used to unwind out of a deeply recursive
// parse when the caller's context is done. It is distinguished from
// *InternalError in ParseContext's recover so that cancellation surfaces
// as the context's own error, not as a parser bug.
type ctxCancel struct {
	err error
}

// checkContext panics with ctxCancel if p's context has been canceled.
// It is called at the top of every loop that could otherwise run for a
// long time on a large document: parseElements and parseObjects.
func (p *parser) checkContext() {
	if p.ctx == nil {
		return
	}
	if err := p.ctx.Err(); err != nil {
		panic(ctxCancel{err})
	}
}

// headingBoundaryRE returns (compiling and caching as needed) the regex
// that finds the next headline at level maxLevel or shallower.
func (p *parser) headingBoundaryRE(maxLevel int) *regexp.Regexp {
	if re, ok := p.boundaryCache[maxLevel]; ok {
		return re
	}
	re := regexp.MustCompile(fmt.Sprintf(`(?m)^\*{1,%d}[ \t]`, maxLevel))
	if p.boundaryCache == nil {
		p.boundaryCache = make(map[int]*regexp.Regexp)
	}
	p.boundaryCache[maxLevel] = re
	return re
}

// findHeadlineEnd returns the absolute offset of the next headline at
// level or shallower, searched forward from the cursor, or the current
// visible end if there is none.
func (p *parser) findHeadlineEnd(level int) int {
	r := p.r
	m := r.Match(p.headingBoundaryRE(level))
	if m == nil {
		return r.EndOffset()
	}
	return r.Offset() + m.Index
}

// findNextHeadingOrEnd returns the absolute offset of the next headline
// at any level, searched forward from the cursor, or the current
// visible end if there is none.
func (p *parser) findNextHeadingOrEnd() int {
	r := p.r
	m := r.Match(anyHeadingRE)
	if m == nil {
		return r.EndOffset()
	}
	return r.Offset() + m.Index
}

func atHeading(r *Reader) bool {
	return r.Match(headingStartRE) != nil
}

func atItemLine(r *Reader) bool {
	return r.Match(itemLineRE) != nil
}

func atCommentLine(r *Reader) bool {
	return r.Match(commentLineRE) != nil
}

func atKeywordLine(r *Reader) bool {
	return r.Match(keywordLineRE) != nil
}

// parseDocument parses the entire buffer visible on p.r (which must be
// positioned at offset 0 with nothing narrowed) into an *OrgData.
func (p *parser) parseDocument() *OrgData {
	r := p.r
	var children []Node
	if !r.EOF() && !atHeading(r) {
		children = append(children, p.parseFirstSection())
	}
	children = append(children, p.parseHeadlineSiblings(1)...)
	return &OrgData{
		ContentsBegin: 0,
		ContentsEnd:   r.EndOffset(),
		Children:      children,
	}
}

// parseFirstSection parses the run of top-level, pre-headline content —
// comments, keywords, paragraphs, and plain lists that appear before the
// document's first headline — as a Section using modeTopComment.
func (p *parser) parseFirstSection() Node {
	r := p.r
	begin := r.Offset()
	end := p.findNextHeadingOrEnd()
	r.Narrow(begin, end)
	children := p.parseElements(modeTopComment)
	r.Widen(true)
	sec := &Section{ContentsBegin: begin, ContentsEnd: end, Children: children}
	return sec.AsNode()
}

// parseHeadlineSiblings parses a maximal run of headlines whose level is
// >= minLevel, stopping at the first headline with a lower level (which
// belongs to an ancestor) or at the current visible end.
func (p *parser) parseHeadlineSiblings(minLevel int) []Node {
	r := p.r
	var out []Node
	for !r.EOF() && atHeading(r) {
		level := p.headingLevelAtCursor()
		if level < minLevel {
			break
		}
		out = append(out, p.parseHeadline(level))
	}
	return out
}

// headingLevelAtCursor returns the number of leading stars of the
// headline at the cursor. The caller must already know atHeading(r) is
// true.
func (p *parser) headingLevelAtCursor() int {
	r := p.r
	m := r.Match(headingStartRE)
	stars, _ := m.Group("stars")
	return len(stars)
}

// parseHeadline parses one headline (whose leading-stars count is
// level) along with the Section and nested headlines it owns.
func (p *parser) parseHeadline(level int) Node {
	r := p.r
	m := r.Match(headingStartRE)
	r.AdvanceMatch(m)

	line := r.Line()
	titleBegin := r.Offset()
	titleEnd := titleBegin + lineContentLength(line)
	rawValue := string(r.Substring(titleBegin, titleEnd))

	r.Narrow(titleBegin, titleEnd)
	title := p.parseObjects(restrictionAll())
	r.Widen(false)
	r.ResetOffset(titleBegin + len(line))
	for !r.EOF() {
		blankLine := r.Line()
		if !isBlankLine(blankLine) {
			break
		}
		r.Advance(len(blankLine))
	}

	contentsBegin := r.Offset()
	end := p.findHeadlineEnd(level)

	r.Narrow(contentsBegin, end)
	var children []Node
	if !r.EOF() && !atHeading(r) {
		children = append(children, p.parseSection(descendMode(HeadlineType)))
	}
	children = append(children, p.parseHeadlineSiblings(level+1)...)
	r.Widen(true)

	h := &Headline{
		Level:         level,
		RawValue:      rawValue,
		Title:         title,
		ContentsBegin: contentsBegin,
		ContentsEnd:   end,
		Children:      children,
	}
	return h.AsNode()
}

// parseSection parses a headline's body, up to (but not including) its
// first child headline, as a Section. The caller must already have
// bounded the visible window to exclude any sibling or ancestor
// headline; everything remaining up to the next headline of any level
// therefore belongs to this section.
func (p *parser) parseSection(m mode) Node {
	r := p.r
	begin := r.Offset()
	end := p.findNextHeadingOrEnd()
	r.Narrow(begin, end)
	children := p.parseElements(m)
	r.Widen(true)
	sec := &Section{ContentsBegin: begin, ContentsEnd: end, Children: children}
	return sec.AsNode()
}

// parseElements repeatedly parses elements under mode m until the
// visible end is reached, returning the resulting nodes in document
// order. Every iteration is required to advance the cursor; a violation
// indicates a parser bug, not malformed input, and is reported via
// panicInternal rather than silently looping forever.
func (p *parser) parseElements(m mode) []Node {
	r := p.r
	var out []Node
	for {
		p.checkContext()
		before := r.Offset()
		node, ok := p.parseElement(m)
		if !ok {
			break
		}
		out = append(out, node)
		if r.Offset() <= before {
			panicInternal(r, "parseElement made no progress in mode %d", m)
		}
	}
	return out
}

// parseElement skips any run of blank lines at the cursor, then parses
// exactly one element under mode m. It returns ok=false once the visible
// end has been reached with nothing left to parse.
//
// Dispatch follows spec.md §4.3.2's ordering: mode == item is checked
// before anything else, since a plain-list's own children are always
// items regardless of what the leading text happens to look like. Every
// other mode this core implements (section, first-section, top-comment,
// and the default null mode reached by an item's own content, since
// item has no entry in §4.3.1's descend table) shares the same generic
// element set, so they fall through to the leading-syntax checks.
func (p *parser) parseElement(m mode) (Node, bool) {
	r := p.r
	for !r.EOF() {
		line := r.Line()
		if !isBlankLine(line) {
			break
		}
		r.Advance(len(line))
	}
	if r.EOF() {
		return Node{}, false
	}
	switch {
	case m == modeItem:
		return p.parseList(), true
	case atKeywordLine(r):
		return p.parseKeyword(), true
	case atCommentLine(r):
		return p.parseComment(), true
	case atItemLine(r):
		return p.parseList(), true
	default:
		return p.parseParagraph(), true
	}
}

// parseKeyword parses one "#+NAME: VALUE" line.
func (p *parser) parseKeyword() Node {
	r := p.r
	begin := r.Offset()
	m := r.Match(keywordLineRE)
	key, _ := m.Group("key")
	value, _ := m.Group("value")
	line := r.Line()
	r.Advance(len(line))
	kw := &Keyword{Key: key, Value: value, ContentsBegin: begin, ContentsEnd: r.Offset()}
	return kw.AsNode()
}

// parseComment parses a maximal run of consecutive "#" comment lines,
// one Text child per line holding that line's content with the leading
// "#" (and the single mandatory separating space, if present) removed.
func (p *parser) parseComment() Node {
	r := p.r
	begin := r.Offset()
	var children []Node
	for !r.EOF() && atCommentLine(r) {
		m := r.Match(commentLineRE)
		r.AdvanceMatch(m)
		contentBegin := r.Offset()
		line := r.Line()
		contentEnd := contentBegin + lineContentLength(line)
		if contentEnd > contentBegin {
			t := &Text{Value: string(r.Substring(contentBegin, contentEnd)), Start: contentBegin, End: contentEnd}
			children = append(children, t.AsNode())
		}
		r.ResetOffset(contentBegin + len(line))
	}
	c := &Comment{ContentsBegin: begin, ContentsEnd: r.Offset(), Children: children}
	return c.AsNode()
}

// parseParagraph parses a run of lines up to (but not including) the
// next line that would start a different element, parsing its contents
// as objects.
func (p *parser) parseParagraph() Node {
	r := p.r
	begin := r.Offset()
	end := r.EndOffset()
	if m := r.Match(paragraphSeparatorRE); m != nil {
		if sepEnd := begin + m.Index; sepEnd < end {
			end = sepEnd
		}
	}
	r.Narrow(begin, end)
	children := p.parseObjects(restrictionFor(ParagraphType))
	r.Widen(true)
	para := &Paragraph{ContentsBegin: begin, ContentsEnd: end, Children: children}
	return para.AsNode()
}

// parseList parses a plain list starting at the cursor. The list
// structure for the outermost list invocation is computed once, by a
// single forward scan, and reused by reference for every sublist nested
// inside any of its items (see scanListStructure and ItemDescriptor).
func (p *parser) parseList() Node {
	r := p.r
	listBegin := r.Offset()
	outermost := p.listStructure == nil
	if outermost {
		p.listStructure = scanListStructure(r)
	}
	structure := p.listStructure

	indent := -1
	for _, d := range structure {
		if d.Begin == listBegin {
			indent = d.Indent
			break
		}
	}
	if indent < 0 {
		panicInternal(r, "no list structure entry for list starting at offset %d", listBegin)
	}

	var members []*ItemDescriptor
	listEnd := listBegin
	for _, d := range structure {
		if d.Begin < listBegin {
			continue
		}
		if d.Indent < indent {
			break
		}
		if d.Indent == indent {
			members = append(members, d)
			listEnd = d.End
		}
	}

	r.Narrow(listBegin, listEnd)
	items := make([]Node, 0, len(members))
	for _, d := range members {
		items = append(items, p.parseItem(d))
	}
	r.Widen(true)

	if outermost {
		p.listStructure = nil
	}

	list := &PlainList{
		Indent:        indent,
		Structure:     structure,
		ContentsBegin: listBegin,
		ContentsEnd:   listEnd,
		Children:      items,
	}
	return list.AsNode()
}

// parseItem parses a single list item described by d.
func (p *parser) parseItem(d *ItemDescriptor) Node {
	r := p.r
	r.ResetOffset(d.Begin)
	_, _, _, _, _, headerEnd, ok := matchItemLine(r)
	if !ok {
		panicInternal(r, "list structure entry at offset %d no longer matches an item line", d.Begin)
	}
	r.Advance(headerEnd)
	contentsBegin := r.Offset()

	// An item's own body has no entry in spec.md §4.3.1's descend table,
	// so it falls to the default null mode, not modeItem (which governs
	// recognizing items as a plain-list's children, a step parseList
	// performs directly from the pre-scanned structure instead of
	// through parseElements).
	r.Narrow(contentsBegin, d.End)
	children := p.parseElements(modeNone)
	r.Widen(true)

	it := &Item{
		Indent:        d.Indent,
		Bullet:        d.Bullet,
		Checkbox:      d.Checkbox,
		Tag:           d.Tag,
		ContentsBegin: contentsBegin,
		ContentsEnd:   d.End,
		Children:      children,
	}
	return it.AsNode()
}
