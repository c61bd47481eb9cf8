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
	"testing"
	"time"
)

func mustParse(t *testing.T, text string) *OrgData {
	t.Helper()
	data, err := Parse([]byte(text), nil)
	if err != nil {
		t.Fatalf("Parse(%q) error: %v", text, err)
	}
	return data
}

func TestParseEmpty(t *testing.T) {
	data := mustParse(t, "")
	if len(data.Children) != 0 {
		t.Errorf("Children = %v, want empty", data.Children)
	}
}

func TestParseSingleHeadline(t *testing.T) {
	data := mustParse(t, "* Hello\n")
	if len(data.Children) != 1 {
		t.Fatalf("len(Children) = %d, want 1", len(data.Children))
	}
	h := data.Children[0].Headline()
	if h == nil {
		t.Fatal("Children[0] is not a Headline")
	}
	if h.Level != 1 {
		t.Errorf("Level = %d, want 1", h.Level)
	}
	if h.RawValue != "Hello" {
		t.Errorf("RawValue = %q, want %q", h.RawValue, "Hello")
	}
}

func TestParseNestedHeadlines(t *testing.T) {
	text := "* One\n** Two\n* Three\n"
	data := mustParse(t, text)
	if len(data.Children) != 2 {
		t.Fatalf("len(Children) = %d, want 2", len(data.Children))
	}
	one := data.Children[0].Headline()
	three := data.Children[1].Headline()
	if one == nil || three == nil {
		t.Fatal("top-level children are not both headlines")
	}
	if one.RawValue != "One" || three.RawValue != "Three" {
		t.Fatalf("RawValue = %q, %q, want %q, %q", one.RawValue, three.RawValue, "One", "Three")
	}
	if len(one.Children) != 1 {
		t.Fatalf("len(One.Children) = %d, want 1", len(one.Children))
	}
	two := one.Children[0].Headline()
	if two == nil {
		t.Fatal("One's only child is not a Headline")
	}
	if two.RawValue != "Two" {
		t.Errorf("RawValue = %q, want %q", two.RawValue, "Two")
	}
}

func TestParseParagraphBeforeFirstHeadline(t *testing.T) {
	text := "Leading text.\n\n* Headline\n"
	data := mustParse(t, text)
	if len(data.Children) != 2 {
		t.Fatalf("len(Children) = %d, want 2", len(data.Children))
	}
	sec := data.Children[0].Section()
	if sec == nil {
		t.Fatal("Children[0] is not a Section")
	}
	if len(sec.Children) != 1 || sec.Children[0].Paragraph() == nil {
		t.Fatalf("Section.Children = %#v, want a single Paragraph", sec.Children)
	}
}

func TestParseCommentLine(t *testing.T) {
	data := mustParse(t, "# a comment\n")
	sec := data.Children[0].Section()
	if sec == nil {
		t.Fatal("Children[0] is not a Section")
	}
	c := sec.Children[0].Comment()
	if c == nil {
		t.Fatal("Section.Children[0] is not a Comment")
	}
	if len(c.Children) != 1 || c.Children[0].Text() == nil {
		t.Fatalf("Comment.Children = %#v", c.Children)
	}
	if got, want := c.Children[0].Text().Value, "a comment"; got != want {
		t.Errorf("comment text = %q, want %q", got, want)
	}
}

func TestParseKeywordLine(t *testing.T) {
	data := mustParse(t, "#+TITLE: My Document\n")
	sec := data.Children[0].Section()
	kw := sec.Children[0].Keyword()
	if kw == nil {
		t.Fatal("Section.Children[0] is not a Keyword")
	}
	if kw.Key != "TITLE" || kw.Value != "My Document" {
		t.Errorf("Key, Value = %q, %q, want %q, %q", kw.Key, kw.Value, "TITLE", "My Document")
	}
}

func TestParsePlainList(t *testing.T) {
	text := "- one\n- two\n"
	data := mustParse(t, text)
	sec := data.Children[0].Section()
	list := sec.Children[0].PlainList()
	if list == nil {
		t.Fatal("Section.Children[0] is not a PlainList")
	}
	if len(list.Children) != 2 {
		t.Fatalf("len(list.Children) = %d, want 2", len(list.Children))
	}
	if len(list.Structure) != 2 {
		t.Fatalf("len(Structure) = %d, want 2", len(list.Structure))
	}
	for i, want := range []string{"one", "two"} {
		item := list.Children[i].Item()
		if item == nil {
			t.Fatalf("list.Children[%d] is not an Item", i)
		}
		if len(item.Children) != 1 {
			t.Fatalf("len(item.Children) = %d, want 1", len(item.Children))
		}
		para := item.Children[0].Paragraph()
		if para == nil {
			t.Fatalf("item.Children[0] is not a Paragraph")
		}
		if len(para.Children) != 1 || para.Children[0].Text() == nil {
			t.Fatalf("paragraph children = %#v", para.Children)
		}
		if got := para.Children[0].Text().Value; got != want+"\n" {
			t.Errorf("item %d text = %q, want %q", i, got, want+"\n")
		}
	}
}

func TestParseNestedList(t *testing.T) {
	text := "- a\n  - a.1\n- b\n"
	data := mustParse(t, text)
	sec := data.Children[0].Section()
	list := sec.Children[0].PlainList()
	if list == nil {
		t.Fatal("Section.Children[0] is not a PlainList")
	}
	if len(list.Children) != 2 {
		t.Fatalf("top-level list has %d items, want 2", len(list.Children))
	}
	itemA := list.Children[0].Item()
	if len(itemA.Children) != 2 {
		t.Fatalf("item a has %d children, want 2 (paragraph + sublist)", len(itemA.Children))
	}
	if itemA.Children[0].Paragraph() == nil {
		t.Error("item a's first child is not a Paragraph")
	}
	sublist := itemA.Children[1].PlainList()
	if sublist == nil {
		t.Fatal("item a's second child is not a PlainList")
	}
	if len(sublist.Structure) != len(list.Structure) || &sublist.Structure[0] != &list.Structure[0] {
		t.Error("sublist.Structure does not share backing with the top-level list's Structure")
	}
	if sublist.Structure[1].Bullet != "-" || sublist.Structure[1].Indent == list.Structure[0].Indent {
		t.Error("shared Structure does not expose the nested item's own descriptor")
	}
}

func TestParseBracketLinkWithDescription(t *testing.T) {
	data := mustParse(t, "[[link][text]]\n")
	sec := data.Children[0].Section()
	para := sec.Children[0].Paragraph()
	if para == nil {
		t.Fatal("Section.Children[0] is not a Paragraph")
	}
	if len(para.Children) == 0 {
		t.Fatal("len(para.Children) = 0, want at least 1")
	}
	link := para.Children[0].Link()
	if link == nil {
		t.Fatal("paragraph child is not a Link")
	}
	if link.LinkType != "fuzzy" {
		t.Errorf("LinkType = %q, want %q", link.LinkType, "fuzzy")
	}
	if link.RawLink != "link" {
		t.Errorf("RawLink = %q, want %q", link.RawLink, "link")
	}
	if len(link.Children) != 1 || link.Children[0].Text() == nil {
		t.Fatalf("link.Children = %#v", link.Children)
	}
	if got := link.Children[0].Text().Value; got != "text" {
		t.Errorf("link description text = %q, want %q", got, "text")
	}
}

func TestParsePlainLinkInSentence(t *testing.T) {
	data := mustParse(t, "hello http://example.com blah\n")
	sec := data.Children[0].Section()
	para := sec.Children[0].Paragraph()
	if para == nil {
		t.Fatal("Section.Children[0] is not a Paragraph")
	}
	if len(para.Children) != 3 {
		t.Fatalf("len(para.Children) = %d, want 3 (text, link, text)", len(para.Children))
	}
	before, link, after := para.Children[0].Text(), para.Children[1].Link(), para.Children[2].Text()
	if before == nil || link == nil || after == nil {
		t.Fatalf("children types = %v, %v, %v, want text, link, text",
			para.Children[0].Type(), para.Children[1].Type(), para.Children[2].Type())
	}
	if link.LinkType != "http" || link.RawLink != "http://example.com" {
		t.Errorf("LinkType, RawLink = %q, %q, want %q, %q", link.LinkType, link.RawLink, "http", "http://example.com")
	}
}

func TestParseListWithEmptyFirstItem(t *testing.T) {
	// A bullet with nothing after it but a newline: itemLineRE must
	// recognize the bullet line itself, not just a bullet followed by
	// trailing content on the same line.
	text := "-\n- foo\n"
	data := mustParse(t, text)
	sec := data.Children[0].Section()
	list := sec.Children[0].PlainList()
	if list == nil {
		t.Fatal("Section.Children[0] is not a PlainList")
	}
	if len(list.Children) != 2 {
		t.Fatalf("len(list.Children) = %d, want 2", len(list.Children))
	}
	first := list.Children[0].Item()
	if first == nil {
		t.Fatal("list.Children[0] is not an Item")
	}
	if len(first.Children) != 0 {
		t.Errorf("first item has %d children, want 0 (empty item)", len(first.Children))
	}
	second := list.Children[1].Item()
	if second == nil {
		t.Fatal("list.Children[1] is not an Item")
	}
	if len(second.Children) != 1 || second.Children[0].Paragraph() == nil {
		t.Fatalf("second item children = %#v, want a single Paragraph", second.Children)
	}
}

func TestParseBracketLinkWhitespaceOnlyDescriptionElided(t *testing.T) {
	data := mustParse(t, "[[a][ ]]\n")
	sec := data.Children[0].Section()
	para := sec.Children[0].Paragraph()
	link := para.Children[0].Link()
	if link == nil {
		t.Fatal("paragraph child is not a Link")
	}
	if len(link.Children) != 0 {
		t.Errorf("link.Children = %#v, want none (all-whitespace description must be elided)", link.Children)
	}
}

func TestParseElementItemModeDispatch(t *testing.T) {
	r := NewReader([]byte("- x\n"))
	p := &parser{r: r}
	node, ok := p.parseElement(modeItem)
	if !ok {
		t.Fatal("parseElement(modeItem) reported no element")
	}
	if node.PlainList() == nil {
		t.Fatalf("parseElement(modeItem) produced %v, want PlainListType", node.Type())
	}
}

func TestParseTypedBracketLink(t *testing.T) {
	data := mustParse(t, "[[file:/tmp/x.org]]\n")
	sec := data.Children[0].Section()
	para := sec.Children[0].Paragraph()
	link := para.Children[0].Link()
	if link == nil {
		t.Fatal("paragraph child is not a Link")
	}
	if link.LinkType != "file" {
		t.Errorf("LinkType = %q, want %q", link.LinkType, "file")
	}
	if link.RawLink != "file:/tmp/x.org" {
		t.Errorf("RawLink = %q, want %q", link.RawLink, "file:/tmp/x.org")
	}
}

// TestContentsRangesNest checks the stated invariant: every
// greater-element/element node's contents range lies within its
// parent's, and children are ordered without overlap.
func TestContentsRangesNest(t *testing.T) {
	text := "* One\nintro\n** Two\n- a\n- b\n* Three\nlast\n"
	data := mustParse(t, text)
	var walk func(n Node, parentBegin, parentEnd int)
	walk = func(n Node, parentBegin, parentEnd int) {
		begin, end := n.ContentsBegin(), n.ContentsEnd()
		if begin < 0 {
			return
		}
		if begin > end {
			t.Errorf("node %v has begin %d > end %d", n.Type(), begin, end)
		}
		if begin < parentBegin || end > parentEnd {
			t.Errorf("node %v range [%d,%d) escapes parent range [%d,%d)", n.Type(), begin, end, parentBegin, parentEnd)
		}
		prevEnd := begin
		for i := 0; i < n.ChildCount(); i++ {
			c := n.Child(i)
			cb := c.ContentsBegin()
			if cb >= 0 && cb < prevEnd {
				t.Errorf("child %d of %v starts at %d, before previous end %d", i, n.Type(), cb, prevEnd)
			}
			walk(c, begin, end)
			if ce := c.ContentsEnd(); ce >= 0 {
				prevEnd = ce
			}
		}
	}
	root := data.AsNode()
	walk(root, 0, len(text))
}

func TestParseContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	text := ""
	for i := 0; i < 10_000; i++ {
		text += "* heading\nbody text\n"
	}
	_, err := ParseContext(ctx, []byte(text), nil)
	if err == nil {
		t.Fatal("ParseContext with a canceled context returned no error")
	}
}

func TestParseContextDeadline(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	time.Sleep(time.Millisecond)
	_, err := ParseContext(ctx, []byte("* a\n* b\n* c\n"), nil)
	if err == nil {
		t.Fatal("ParseContext with an expired deadline returned no error")
	}
}
