package assistant

import (
	"encoding/json"
	"strings"
)

// The assistant is instructed to end its answer with a fenced block:
//
//	```json
//	{ ... company fields ... }
//	```
//
// BlockParser extracts that block incrementally from streamed chunks. The
// fence markers can arrive split across chunk boundaries, so the parser
// holds back any chunk tail that is a prefix of the marker it is waiting
// for, instead of regexing over partial text.
type BlockParser struct {
	state   parseState
	pending string // held-back tail, possibly a split marker
	block   strings.Builder
	closed  bool // block terminated by a closing fence
}

type parseState int

const (
	stateText parseState = iota
	stateBlock
	stateDone
)

const (
	openMarker  = "```json"
	closeMarker = "```"
)

func NewBlockParser() *BlockParser {
	return &BlockParser{}
}

// Feed consumes one streamed chunk and returns the text that is safe to
// show the user (everything outside the data block).
func (p *BlockParser) Feed(chunk string) string {
	buf := p.pending + chunk
	p.pending = ""

	var visible strings.Builder
	for buf != "" {
		switch p.state {
		case stateText:
			if idx := strings.Index(buf, openMarker); idx >= 0 {
				visible.WriteString(buf[:idx])
				buf = buf[idx+len(openMarker):]
				p.state = stateBlock
				continue
			}
			hold := suffixPrefixLen(buf, openMarker)
			visible.WriteString(buf[:len(buf)-hold])
			p.pending = buf[len(buf)-hold:]
			buf = ""

		case stateBlock:
			if idx := strings.Index(buf, closeMarker); idx >= 0 {
				p.block.WriteString(buf[:idx])
				buf = buf[idx+len(closeMarker):]
				p.state = stateDone
				p.closed = true
				continue
			}
			hold := suffixPrefixLen(buf, closeMarker)
			p.block.WriteString(buf[:len(buf)-hold])
			p.pending = buf[len(buf)-hold:]
			buf = ""

		case stateDone:
			visible.WriteString(buf)
			buf = ""
		}
	}
	return visible.String()
}

// Finish flushes the held-back tail once the stream ends and returns any
// remaining visible text. A partial marker that never completed is plain
// text; an unterminated block yields no result.
func (p *BlockParser) Finish() string {
	rest := p.pending
	p.pending = ""
	switch p.state {
	case stateText:
		p.state = stateDone
		return rest
	case stateBlock:
		p.block.WriteString(rest)
		p.state = stateDone
		return ""
	default:
		return rest
	}
}

// Block returns the extracted JSON fragment, if a complete and valid one
// was seen.
func (p *BlockParser) Block() (json.RawMessage, bool) {
	if !p.closed {
		return nil, false
	}
	raw := strings.TrimSpace(p.block.String())
	if raw == "" || !json.Valid([]byte(raw)) {
		return nil, false
	}
	return json.RawMessage(raw), true
}

// suffixPrefixLen reports the length of the longest proper suffix of s
// that is a prefix of marker.
func suffixPrefixLen(s, marker string) int {
	max := len(marker) - 1
	if len(s) < max {
		max = len(s)
	}
	for l := max; l > 0; l-- {
		if strings.HasSuffix(s, marker[:l]) {
			return l
		}
	}
	return 0
}
