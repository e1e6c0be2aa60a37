// Package feed decodes board states from the upstream process.
//
// The stream is line oriented. A frame is a run of row lines terminated by an
// empty line or the end of the stream; every rune of a row line is one cell,
// with '.' accepted in place of a space. A line "fen <FEN>" is a frame on its
// own. Lines starting with '#' are ignored.
package feed

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rook-computer/boardview/internal/board"
	"github.com/rook-computer/boardview/internal/obslog"
)

const (
	SourceRows = "rows"
	SourceFEN  = "fen"

	fenPrefix  = "fen "
	emptyAlias = '.'
)

// Source delivers boards to a sink until it runs dry or ctx is cancelled.
type Source interface {
	Run(ctx context.Context, sink Sink) error
}

// Sink receives decoded boards.
type Sink interface {
	SetBoard(m board.Matrix, source string)
}

type Reader struct {
	r      io.Reader
	Logger obslog.Logger
}

func NewReader(r io.Reader) *Reader { return &Reader{r: r} }

// Run decodes frames until the stream ends or ctx is cancelled. Reaching the
// end of the stream is not an error.
func (f *Reader) Run(ctx context.Context, sink Sink) error {
	scanner := bufio.NewScanner(f.r)
	var rows []string
	frames := 0
	flush := func() {
		if len(rows) == 0 {
			return
		}
		sink.SetBoard(board.ParseRows(rows), SourceRows)
		frames++
		rows = nil
	}

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		line := strings.TrimSuffix(scanner.Text(), "\r")
		switch {
		case strings.HasPrefix(line, "#"):
			continue
		case line == "":
			flush()
		case strings.HasPrefix(line, fenPrefix):
			flush()
			m, err := board.FromFEN(strings.TrimPrefix(line, fenPrefix))
			if err != nil {
				f.errorf("%v", err)
				continue
			}
			sink.SetBoard(m, SourceFEN)
			frames++
		default:
			rows = append(rows, DecodeRow(line))
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read feed: %w", err)
	}
	flush()
	if f.Logger != nil {
		f.Logger.Infof("feed", "stream ended after %d frames", frames)
	}
	return nil
}

// DecodeFrame decodes one self-contained frame: either a "fen <FEN>" line or
// row lines separated by newlines. Blank and comment lines are dropped.
func DecodeFrame(payload string) (board.Matrix, string, error) {
	payload = strings.Trim(payload, "\r\n")
	if strings.HasPrefix(payload, fenPrefix) {
		m, err := board.FromFEN(strings.TrimPrefix(payload, fenPrefix))
		if err != nil {
			return nil, "", err
		}
		return m, SourceFEN, nil
	}
	var rows []string
	for _, line := range strings.Split(payload, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rows = append(rows, DecodeRow(line))
	}
	return board.ParseRows(rows), SourceRows, nil
}

// DecodeRow maps the '.' alias of a row line to the empty cell symbol.
func DecodeRow(line string) string {
	return strings.ReplaceAll(line, string(emptyAlias), string(board.EmptySymbol))
}

func (f *Reader) errorf(format string, args ...interface{}) {
	if f.Logger != nil {
		f.Logger.Errorf("feed", format, args...)
	}
}
