package sentrytarget

import (
	"fmt"
	"maps"
)

// CategoryKey is the attribute/field key that overrides a record's category.
const CategoryKey = "category"

// DefaultCategory is used when a record carries no category.
const DefaultCategory = "application"

// KeyMsgAttr holds a log attribute named "msg", which would otherwise be
// replaced by the log message.
const KeyMsgAttr = "msg_attr"

// buildPayload picks the payload variant for a log call: an error value wins
// (wrapped with the message, fields kept as extras), a bare message is Text,
// and anything with fields is Structured with the message under "msg".
// fields is never modified.
func buildPayload(msg string, fields map[string]any, err error) Payload {
	if err != nil {
		p := Error{Err: err}
		if msg != "" && msg != err.Error() {
			p.Err = fmt.Errorf("%s: %w", msg, err)
		}
		if len(fields) > 0 {
			p.Fields = maps.Clone(fields)
		}
		return p
	}

	if len(fields) == 0 {
		return Text(msg)
	}

	s := make(Structured, len(fields)+1)
	maps.Copy(s, fields)
	if v, ok := s[KeyMsg]; ok {
		s[KeyMsgAttr] = v
	}
	s[KeyMsg] = msg
	return s
}
