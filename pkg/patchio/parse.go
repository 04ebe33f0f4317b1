package patchio

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/chazu/trisurf/pkg/bezier"
)

const (
	openBrace  = "{{"
	closeBrace = "}}"
)

// AutoDegree asks Parse and ReadFile to infer the degree from the
// number of points.
const AutoDegree = -1

// Parse reads a degree-n patch from r. The text must hold exactly
// NumControlPoints(degree) points. With AutoDegree it behaves like
// ParseAuto.
func Parse(r io.Reader, degree int) (bezier.Patch, error) {
	if degree == AutoDegree {
		return ParseAuto(r)
	}
	if degree < 0 {
		return bezier.Patch{}, fmt.Errorf("patchio: negative degree %d", degree)
	}
	body, base, err := envelope(r)
	if err != nil {
		return bezier.Patch{}, err
	}
	want := bezier.NumControlPoints(degree)
	points, err := scan(body, base, want)
	if err != nil {
		return bezier.Patch{}, err
	}
	if len(points) < want {
		return bezier.Patch{}, &ParseError{
			Point:  len(points),
			Offset: base + len(body),
			Msg:    fmt.Sprintf("degree %d needs %d points, found %d", degree, want, len(points)),
		}
	}
	return bezier.NewPatch(degree, points)
}

// ParseString is Parse over a string.
func ParseString(s string, degree int) (bezier.Patch, error) {
	return Parse(strings.NewReader(s), degree)
}

// ParseAuto reads a patch of whatever degree the point count implies.
// The count must be a triangular number.
func ParseAuto(r io.Reader) (bezier.Patch, error) {
	body, base, err := envelope(r)
	if err != nil {
		return bezier.Patch{}, err
	}
	points, err := scan(body, base, -1)
	if err != nil {
		return bezier.Patch{}, err
	}
	degree, ok := bezier.DegreeForCount(len(points))
	if !ok {
		return bezier.Patch{}, &ParseError{
			Point:  -1,
			Offset: base + len(body),
			Msg:    fmt.Sprintf("%d points do not form a triangular patch", len(points)),
		}
	}
	return bezier.NewPatch(degree, points)
}

// envelope strips whitespace from r and returns the text between the
// outer double braces along with its offset.
func envelope(r io.Reader) (string, int, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return "", 0, fmt.Errorf("patchio: read: %w", err)
	}
	s := strings.Map(func(c rune) rune {
		if unicode.IsSpace(c) {
			return -1
		}
		return c
	}, string(raw))
	if !strings.HasPrefix(s, openBrace) {
		return "", 0, &ParseError{Point: -1, Offset: 0, Msg: "missing opening {{"}
	}
	if len(s) < len(openBrace)+len(closeBrace) || !strings.HasSuffix(s, closeBrace) {
		return "", 0, &ParseError{Point: -1, Offset: len(s), Msg: "missing closing }}"}
	}
	return s[len(openBrace) : len(s)-len(closeBrace)], len(openBrace), nil
}

// scan reads comma-separated {x,y,z} points from body. It reads at most
// limit points when limit >= 0 and fails if anything follows them.
func scan(body string, base, limit int) ([]bezier.Point, error) {
	var points []bezier.Point
	pos := 0
	for pos < len(body) {
		i := len(points)
		if limit >= 0 && i == limit {
			return nil, &ParseError{Point: i, Offset: base + pos, Msg: "unexpected data after last point"}
		}
		if i > 0 {
			if body[pos] != ',' {
				return nil, &ParseError{Point: i, Offset: base + pos, Msg: "expected ',' between points"}
			}
			pos++
		}
		if pos >= len(body) || body[pos] != '{' {
			return nil, &ParseError{Point: i, Offset: base + pos, Msg: "expected '{'"}
		}
		end := strings.IndexByte(body[pos:], '}')
		if end < 0 {
			return nil, &ParseError{Point: i, Offset: base + pos, Msg: "unterminated point"}
		}
		p, err := parsePoint(body[pos+1 : pos+end])
		if err != nil {
			return nil, &ParseError{Point: i, Offset: base + pos, Msg: err.Error()}
		}
		points = append(points, p)
		pos += end + 1
	}
	return points, nil
}

func parsePoint(s string) (bezier.Point, error) {
	fields := strings.Split(s, ",")
	if len(fields) != 3 {
		return bezier.Point{}, fmt.Errorf("want 3 coordinates, got %d", len(fields))
	}
	var xyz [3]float64
	for i, f := range fields {
		if n := len(f); n > 1 && (f[n-1] == 'f' || f[n-1] == 'F') {
			f = f[:n-1]
		}
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return bezier.Point{}, fmt.Errorf("bad coordinate %q", fields[i])
		}
		xyz[i] = v
	}
	return bezier.Point{X: xyz[0], Y: xyz[1], Z: xyz[2]}, nil
}
