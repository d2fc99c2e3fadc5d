package feed

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidCursor = errors.New("invalid cursor")

const cursorSeparator = "_"

// Cursor is a position in the (score DESC, id ASC) order.
type Cursor struct {
	Score      int
	QuestionID string
}

// Encode renders "<score>_<id>". The score never contains the separator, so
// ids are free to.
func (c Cursor) Encode() string {
	return strconv.Itoa(c.Score) + cursorSeparator + c.QuestionID
}

func (c Cursor) String() string { return c.Encode() }

// DecodeCursor splits on the first separator only.
func DecodeCursor(token string) (Cursor, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Cursor{}, fmt.Errorf("%w: empty", ErrInvalidCursor)
	}
	rawScore, id, ok := strings.Cut(token, cursorSeparator)
	if !ok {
		return Cursor{}, fmt.Errorf("%w: missing separator", ErrInvalidCursor)
	}
	if id == "" {
		return Cursor{}, fmt.Errorf("%w: empty id", ErrInvalidCursor)
	}
	if !isDigits(rawScore) {
		return Cursor{}, fmt.Errorf("%w: score %q is not a non-negative integer", ErrInvalidCursor, rawScore)
	}
	score, err := strconv.Atoi(rawScore)
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}
	return Cursor{Score: score, QuestionID: id}, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
