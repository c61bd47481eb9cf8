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

import "regexp"

// ItemDescriptor is one entry of a list structure: the position and
// parsed header fields of a single list item line, discovered during
// the forward pre-scan that [scanListStructure] performs. A PlainList's
// Structure holds every ItemDescriptor belonging to it and to every list
// nested inside it, flat and sorted by Begin; every sublist nested in the
// list holds that same slice by reference rather than a private copy, so
// that a parent list always sees its descendants' entries too. Items do
// not hold the slice; an Item copies the fields of its own descriptor.
type ItemDescriptor struct {
	Begin    int
	Indent   int
	Bullet   string
	Counter  string
	Checkbox Checkbox
	Tag      string
	// End is the offset where this item's contents stop: the Begin of
	// the next sibling or ancestor-level item, or the end of the list.
	// It is filled in by scanListStructure after every item's Begin and
	// Indent are known, since an item's extent can't be determined
	// until its successor has been found.
	End int
}

// matchItemLine reports whether the line at r's cursor starts a list
// item, returning its parsed fields and the length of its header if so.
// parseItem uses it to find where an item's contents begin; the Item's
// own fields come from its ItemDescriptor. scanListStructure matches the
// same patterns through matchItemLineBytes instead.
func matchItemLine(r *Reader) (indent int, bullet, counter string, checkbox Checkbox, tag string, headerEnd int, ok bool) {
	if r.Match(itemLineRE) == nil {
		return 0, "", "", CheckboxNone, "", 0, false
	}
	m := r.Match(fullItemRE)
	if m == nil {
		panicInternal(r, "itemLineRE matched but fullItemRE did not")
	}
	indentText, _ := m.Group("indent")
	bullet, _ = m.Group("bullet")
	counter, _ = m.Group("counter")
	checkboxText, hasCheckbox := m.Group("checkbox")
	tag, _ = m.Group("tag")
	if hasCheckbox {
		checkbox = mapCheckbox(checkboxText)
	}
	return len(indentText), bullet, counter, checkbox, tag, m.End, true
}

// mapCheckbox converts a checkbox group's matched character to a
// Checkbox value.
func mapCheckbox(s string) Checkbox {
	switch s {
	case " ":
		return CheckboxOff
	case "X", "x":
		return CheckboxOn
	case "-":
		return CheckboxTrans
	default:
		return CheckboxNone
	}
}

// scanListStructure performs the single forward pre-scan that spec.md
// §4.3.3 calls the list structure scanner. Starting at r's current
// cursor (which must be positioned at the first item line of a plain
// list), it walks forward line by line, recording an ItemDescriptor for
// every line that starts an item, and stops the scan the first time it
// finds a line that terminates the list: two consecutive blank lines, a
// non-item line whose indent is less than or equal to the top-level
// item's indent, or an item line indented less than the top-level item.
//
// The scan never mutates r's cursor: it reads the buffer directly via
// Reader.Substring, leaving the caller's own position (and the Narrow
// that established the visible window being scanned) untouched.
func scanListStructure(r *Reader) []*ItemDescriptor {
	baseIndent := -1
	pos := r.Offset()
	end := r.EndOffset()
	var items []*ItemDescriptor
	sawBlank := false
	preBlankPos := pos

	for pos < end {
		lineEnd := nextLineEnd(r, pos, end)
		line := r.Substring(pos, lineEnd)

		if isBlankLine(line) {
			if sawBlank {
				pos = preBlankPos
				break
			}
			sawBlank = true
			preBlankPos = pos
			pos = lineEnd
			continue
		}

		indent := leadingWhitespace(line)
		body := r.Substring(pos+indent, lineEnd)

		if groups, matched := matchItemLineBytes(body); matched {
			if baseIndent < 0 {
				baseIndent = indent
			} else if indent < baseIndent {
				if sawBlank {
					pos = preBlankPos
				}
				break
			}
			items = append(items, itemDescriptorFromGroups(groups, pos, indent))
			sawBlank = false
			pos = lineEnd
			continue
		}

		if baseIndent >= 0 && indent <= baseIndent {
			if sawBlank {
				pos = preBlankPos
			}
			break
		}
		sawBlank = false
		pos = lineEnd
	}

	fillItemEnds(items, pos)
	return items
}

// nextLineEnd returns the offset just past the next newline at or after
// pos, or end if no newline remains before end.
func nextLineEnd(r *Reader, pos, end int) int {
	rest := r.Substring(pos, end)
	for i, b := range rest {
		if b == '\n' {
			return pos + i + 1
		}
	}
	return end
}

// leadingWhitespace returns the number of leading space/tab bytes in
// line.
func leadingWhitespace(line []byte) int {
	n := 0
	for n < len(line) && (line[n] == ' ' || line[n] == '\t') {
		n++
	}
	return n
}

// matchItemLineBytes reports whether body (a line with its leading
// whitespace already stripped) starts an item, returning its named
// capture groups if so.
func matchItemLineBytes(body []byte) (groups map[string]string, ok bool) {
	if !itemLineRE.Match(body) {
		return nil, false
	}
	return namedGroups(fullItemRE, body), true
}

// namedGroups runs re against b and returns its named capture groups as
// a map from name to matched text; a group that didn't participate in
// the match is simply absent from the map.
func namedGroups(re *regexp.Regexp, b []byte) map[string]string {
	loc := re.FindSubmatchIndex(b)
	out := make(map[string]string)
	if loc == nil {
		return out
	}
	for i, name := range re.SubexpNames() {
		if name == "" {
			continue
		}
		lo, hi := loc[2*i], loc[2*i+1]
		if lo < 0 {
			continue
		}
		out[name] = string(b[lo:hi])
	}
	return out
}

// itemDescriptorFromGroups builds an ItemDescriptor from fullItemRE's
// named groups matched against an item line whose leading whitespace
// (indent bytes long) has already been measured. begin is the absolute
// offset of the start of the line, before the indent.
func itemDescriptorFromGroups(groups map[string]string, begin, indent int) *ItemDescriptor {
	checkbox := CheckboxNone
	if cb, ok := groups["checkbox"]; ok {
		checkbox = mapCheckbox(cb)
	}
	return &ItemDescriptor{
		Begin:    begin,
		Indent:   indent,
		Bullet:   groups["bullet"],
		Counter:  groups["counter"],
		Checkbox: checkbox,
		Tag:      groups["tag"],
	}
}

// fillItemEnds sets every descriptor's End: each item ends where the
// next descriptor at an indent less than or equal to its own begins, or
// at listEnd for the last such item in its run.
func fillItemEnds(items []*ItemDescriptor, listEnd int) {
	for i, it := range items {
		end := listEnd
		for j := i + 1; j < len(items); j++ {
			if items[j].Indent <= it.Indent {
				end = items[j].Begin
				break
			}
		}
		it.End = end
	}
}
