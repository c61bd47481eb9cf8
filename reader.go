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
	"bytes"
	"regexp"
)

// window is one entry of the Reader's narrow stack: the window that was
// visible before a narrow call, plus the cursor position at the time of
// the call (restored by a non-preserving widen).
type window struct {
	begin, end int
	savedPos   int
}

// Reader is a cursor over an immutable byte buffer. It exposes the
// current position, cheap regular-expression matching anchored at that
// position, and a LIFO stack of "narrow" windows that temporarily bound
// the visible slice of the buffer so that recursive subparses can only
// ever see the range of text they own.
//
// The zero Reader is not usable; construct one with NewReader.
type Reader struct {
	buf   []byte
	pos   int
	begin int
	end   int
	stack []window
}

// NewReader returns a Reader positioned at the start of buf with its
// entire length visible.
func NewReader(buf []byte) *Reader {
	return &Reader{
		buf: buf,
		end: len(buf),
	}
}

// Offset returns the current absolute cursor position.
func (r *Reader) Offset() int {
	return r.pos
}

// EndOffset returns the current visible end: the top of the narrow
// stack, or the buffer length if the stack is empty.
func (r *Reader) EndOffset() int {
	return r.end
}

// BeginOffset returns the current visible start.
func (r *Reader) BeginOffset() int {
	return r.begin
}

// EOF reports whether the cursor has reached the current visible end.
func (r *Reader) EOF() bool {
	return r.pos >= r.end
}

// Peek returns the next n visible bytes, or fewer if the visible end is
// reached first. The returned slice aliases the buffer.
func (r *Reader) Peek(n int) []byte {
	end := r.pos + n
	if end > r.end {
		end = r.end
	}
	return r.buf[r.pos:end]
}

// Rest returns the visible bytes from the cursor to the current visible
// end. The returned slice aliases the buffer.
func (r *Reader) Rest() []byte {
	return r.buf[r.pos:r.end]
}

// Line returns the bytes from the cursor through the next newline
// inclusive, or through the visible end if no newline remains.
func (r *Reader) Line() []byte {
	rest := r.Rest()
	if i := bytes.IndexByte(rest, '\n'); i >= 0 {
		return rest[:i+1]
	}
	return rest
}

// Match attempts to match re against the visible slice starting at the
// cursor (that is, Rest()). Regexes anchored with ^ (without the (?m)
// flag) therefore only match at the cursor itself; regexes without an
// anchor, or with (?m), can match further ahead — callers that want a
// forward search write the pattern that way. Match returns nil on no
// match.
func (r *Reader) Match(re *regexp.Regexp) *Match {
	rest := r.Rest()
	loc := re.FindSubmatchIndex(rest)
	if loc == nil {
		return nil
	}
	m := &Match{
		rest:  rest,
		base:  r.pos,
		Index: loc[0],
		End:   loc[1],
	}
	names := re.SubexpNames()
	if len(names) > 1 {
		m.spans = make(map[string][2]int, len(names)-1)
		for i, name := range names {
			if name == "" {
				continue
			}
			m.spans[name] = [2]int{loc[2*i], loc[2*i+1]}
		}
	}
	return m
}

// Advance moves the cursor forward by n bytes. It panics if that would
// move the cursor outside the visible window.
func (r *Reader) Advance(n int) {
	pos := r.pos + n
	if pos < r.begin || pos > r.end {
		panicInternal(r, "advance(%d) would move cursor outside visible window", n)
	}
	r.pos = pos
}

// AdvanceMatch moves the cursor forward by m.Index + len(match text),
// i.e. to the end of the match that was found starting at or after the
// cursor.
func (r *Reader) AdvanceMatch(m *Match) {
	r.Advance(m.End)
}

// ResetOffset sets the cursor to an absolute offset, which must lie
// within the current visible window.
func (r *Reader) ResetOffset(abs int) {
	if abs < r.begin || abs > r.end {
		panicInternal(r, "resetOffset(%d) outside visible window [%d, %d)", abs, r.begin, r.end)
	}
	r.pos = abs
}

// Substring returns buf[a:b] of the underlying buffer, ignoring the
// current window.
func (r *Reader) Substring(a, b int) []byte {
	return r.buf[a:b]
}

// Narrow pushes the current window onto the stack and replaces it with
// [begin, end), repositioning the cursor to begin. Every Narrow must be
// paired with exactly one Widen on every exit path of the function that
// called it; that discipline is what keeps a recursive subparse from
// running off the end of the range it was given.
func (r *Reader) Narrow(begin, end int) {
	if begin < 0 || end > len(r.buf) || begin > end {
		panicInternal(r, "narrow(%d, %d) outside buffer of length %d", begin, end, len(r.buf))
	}
	r.stack = append(r.stack, window{begin: r.begin, end: r.end, savedPos: r.pos})
	r.begin = begin
	r.end = end
	r.pos = begin
}

// Widen pops the most recently pushed window. By default the cursor is
// restored to the value it held when the matching Narrow was called; if
// preservePosition is true, the current cursor value is kept instead
// (clamped into the restored window is never necessary, since the
// restored window always contains whatever range the caller narrowed
// into).
func (r *Reader) Widen(preservePosition bool) {
	if len(r.stack) == 0 {
		panicInternal(r, "widen called with no matching narrow")
	}
	top := r.stack[len(r.stack)-1]
	r.stack = r.stack[:len(r.stack)-1]
	cur := r.pos
	r.begin = top.begin
	r.end = top.end
	if preservePosition {
		r.pos = cur
	} else {
		r.pos = top.savedPos
	}
}

// Match is the result of a successful [Reader.Match]. Index and End are
// byte offsets relative to the slice that was searched (Rest() at the
// time of the call), so Index is 0 for a regex anchored with ^.
type Match struct {
	rest  []byte
	base  int
	Index int
	End   int
	spans map[string][2]int
}

// Text returns the full matched substring.
func (m *Match) Text() string {
	return string(m.rest[m.Index:m.End])
}

// Group returns the text captured by the named group, and whether that
// group participated in the match (an optional group that didn't match
// reports ok=false, distinguishing it from a group that matched an empty
// string).
func (m *Match) Group(name string) (text string, ok bool) {
	sp, found := m.spans[name]
	if !found || sp[0] < 0 {
		return "", false
	}
	return string(m.rest[sp[0]:sp[1]]), true
}

// GroupRange is like Group but returns the group's byte range as
// absolute offsets into the buffer the originating Reader was
// constructed with, rather than the matched text. This is what callers
// use to narrow a Reader onto a submatch (e.g. a bracket link's
// description) without losing position information.
func (m *Match) GroupRange(name string) (begin, end int, ok bool) {
	sp, found := m.spans[name]
	if !found || sp[0] < 0 {
		return 0, 0, false
	}
	return m.base + sp[0], m.base + sp[1], true
}
