// SPDX-License-Identifier: EPL-2.0

package schedule

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/ik5/entrain/utils"
)

// Parse reads a Gnaural XML program from r.
//
// The first <schedule> element in document order is the root. Malformed
// XML yields ErrMalformedSource and a document without a root yields
// ErrMissingRoot; both come wrapped in a *ParseError. Parse never returns
// a partially built Schedule.
func Parse(r io.Reader) (*Schedule, error) {
	doc, err := buildTree(r)
	if err != nil {
		return nil, &ParseError{Kind: KindMalformedSource, Voice: -1, Err: err}
	}

	root := doc.find("schedule")
	if root == nil {
		return nil, &ParseError{Kind: KindMissingRoot, Voice: -1}
	}

	md := Metadata{
		Title:       root.text("title", "Untitled Schedule"),
		Description: root.text("schedule_description", ""),
		Author:      root.text("author", "Unknown"),
		Version:     root.text("gnaural_version", ""),
		TotalTime:   parseFloat(root.text("totaltime", ""), 0),
		Loops:       max(1, parseInt(root.text("loops", ""), 1)),
	}

	var voices []Voice
	idx := 0
	for _, vn := range root.children {
		if vn.name != "voice" {
			continue
		}
		v, err := parseVoice(vn, idx)
		if err != nil {
			return nil, err
		}
		voices = append(voices, v)
		idx++
	}

	s := New(md, voices)
	s.OverallVolumeLeft = utils.Clamp(parseFloat(root.text("overallvolume_left", ""), 1), 0, MaxVolume)
	s.OverallVolumeRight = utils.Clamp(parseFloat(root.text("overallvolume_right", ""), 1), 0, MaxVolume)

	return s, nil
}

// ParseBytes is Parse over an in-memory document.
func ParseBytes(b []byte) (*Schedule, error) {
	return Parse(bytes.NewReader(b))
}

func parseVoice(n *node, index int) (Voice, error) {
	code := parseInt(n.text("type", ""), 0)
	vt := VoiceType(code)
	if !vt.Valid() {
		return Voice{}, &ParseError{
			Kind:  KindUnknownVoiceType,
			Voice: index,
			Err:   fmt.Errorf("type code %d", code),
		}
	}

	v := Voice{
		ID:          index,
		Type:        vt,
		Description: n.text("description", fmt.Sprintf("Voice %d", index+1)),
		Muted:       n.text("voice_mute", "0") == "1",
		Mono:        n.text("voice_mono", "0") == "1",
		File:        n.text("voice_file", ""),
	}

	for _, en := range n.entryNodes(nil) {
		v.Entries = append(v.Entries, parseEntry(en))
	}

	return v, nil
}

func parseEntry(n *node) Entry {
	volume := utils.Clamp(parseFloat(n.field("volume"), DefaultVolume), 0, MaxVolume)

	return Entry{
		Duration:      math.Max(0, parseFloat(n.field("duration"), 0)),
		BaseStart:     math.Max(0, parseFloat(n.field("basefreq"), 0)),
		BeatHalfStart: math.Max(0, parseFloat(n.field("beatfreq"), 0)) * 0.5,
		VolLStart:     utils.Clamp(parseFloat(n.field("volume_left"), volume), 0, MaxVolume),
		VolRStart:     utils.Clamp(parseFloat(n.field("volume_right"), volume), 0, MaxVolume),
	}
}

// node is a minimal element tree; the format is loose enough (attribute or
// child element, any nesting depth) that struct unmarshaling does not fit.
type node struct {
	name     string
	attrs    []xml.Attr
	children []*node
	data     strings.Builder
}

func buildTree(r io.Reader) (*node, error) {
	dec := xml.NewDecoder(r)
	doc := &node{}
	stack := []*node{doc}

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &node{name: t.Name.Local, attrs: t.Attr}
			parent := stack[len(stack)-1]
			parent.children = append(parent.children, n)
			stack = append(stack, n)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			stack[len(stack)-1].data.Write(t)
		}
	}

	if len(doc.children) == 0 {
		return nil, errors.New("document has no elements")
	}
	return doc, nil
}

// find returns the first descendant named name in document order.
func (n *node) find(name string) *node {
	for _, c := range n.children {
		if c.name == name {
			return c
		}
		if found := c.find(name); found != nil {
			return found
		}
	}
	return nil
}

func (n *node) content() string {
	if len(n.children) == 0 {
		return n.data.String()
	}
	var sb strings.Builder
	n.writeContent(&sb)
	return sb.String()
}

func (n *node) writeContent(sb *strings.Builder) {
	sb.WriteString(n.data.String())
	for _, c := range n.children {
		c.writeContent(sb)
	}
}

// text returns the trimmed content of the first descendant named name, or
// fallback when there is none.
func (n *node) text(name, fallback string) string {
	c := n.find(name)
	if c == nil {
		return fallback
	}
	return strings.TrimSpace(c.content())
}

// field reads an entry value from an attribute first and a child element
// second. The empty string means neither exists.
func (n *node) field(name string) string {
	for _, a := range n.attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}
	if c := n.find(name); c != nil {
		return c.content()
	}
	return ""
}

// entryNodes collects, in document order, every <entry> whose parent is an
// <entries> element below n.
func (n *node) entryNodes(acc []*node) []*node {
	for _, c := range n.children {
		if c.name == "entry" && n.name == "entries" {
			acc = append(acc, c)
		}
		acc = c.entryNodes(acc)
	}
	return acc
}

// parseFloat reads the leading decimal number of s, ignoring trailing
// garbage, and returns fallback when there is none or it is not finite.
func parseFloat(s string, fallback float64) float64 {
	s = strings.TrimSpace(s)
	end := numberPrefix(s, true)
	if end == 0 {
		return fallback
	}

	f, err := strconv.ParseFloat(s[:end], 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return fallback
	}
	return f
}

// parseInt reads the leading integer of s, ignoring trailing garbage.
func parseInt(s string, fallback int) int {
	s = strings.TrimSpace(s)
	end := numberPrefix(s, false)
	if end == 0 {
		return fallback
	}

	i, err := strconv.Atoi(s[:end])
	if err != nil {
		return fallback
	}
	return i
}

// numberPrefix returns the length of the numeric prefix of s. Fractions and
// exponents are accepted only when float is set.
func numberPrefix(s string, float bool) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}

	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if float && i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return 0
	}

	if float && i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < len(s) && isDigit(s[k]) {
			k++
		}
		if k > j {
			i = k
		}
	}

	return i
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
