package feed

import (
	"errors"
	"testing"
)

func TestCursorRoundTrip(t *testing.T) {
	ids := []string{
		"q1",
		"4b3f0c7e-1111-2222-3333-444455556666",
		"two_sum",
		"a_b_c_",
		"_leading",
		"12_34",
		"space id",
	}
	for _, score := range []int{0, 2, 8, 41} {
		for _, id := range ids {
			in := Cursor{Score: score, QuestionID: id}
			out, err := DecodeCursor(in.Encode())
			if err != nil {
				t.Fatalf("decode %q: %v", in.Encode(), err)
			}
			if out != in {
				t.Fatalf("round trip: want=%+v got=%+v", in, out)
			}
		}
	}
}

func TestDecodeCursorRejectsMalformed(t *testing.T) {
	for _, token := range []string{
		"",
		"   ",
		"12",
		"12_",
		"_q1",
		"abc_q1",
		"-3_q1",
		"+3_q1",
		"1.5_q1",
	} {
		if _, err := DecodeCursor(token); !errors.Is(err, ErrInvalidCursor) {
			t.Fatalf("%q: want ErrInvalidCursor got %v", token, err)
		}
	}
}
