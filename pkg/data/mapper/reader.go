package mapper

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"golang.org/x/exp/mmap"

	"github.com/mwakio197/Dbot-sub001/pkg/common"
)

var ErrEof = errors.New("EOF")

const chunkSize = 64 * 1024

// Reader gives indexed access to a JSON-lines contract dump through a memory mapping.
// Blank lines are skipped.
type Reader struct {
	dataSourceName string
	reader         *mmap.ReaderAt
	lines          []span
}

type span struct {
	offset int64
	length int
}

func NewReader(dataSourceName string) *Reader {
	return &Reader{dataSourceName: dataSourceName}
}

func (r *Reader) Open() error {
	var err error
	r.reader, err = mmap.Open(r.dataSourceName)
	if err != nil {
		return fmt.Errorf("unable to open data source %q: %w", r.dataSourceName, err)
	}
	if err := r.index(); err != nil {
		_ = r.reader.Close()
		r.reader = nil
		return err
	}
	return nil
}

func (r *Reader) Close() {
	if r.reader != nil {
		_ = r.reader.Close()
	}
}

func (r *Reader) EntryCount() int64 {
	return int64(len(r.lines))
}

func (r *Reader) Read(index int64, info *common.ContractInfo) error {
	if index < 0 || index >= int64(len(r.lines)) {
		return ErrEof
	}

	line := r.lines[index]
	buffer := make([]byte, line.length)
	if _, err := r.reader.ReadAt(buffer, line.offset); err != nil && err != io.EOF {
		return fmt.Errorf("unable to read entry %d: %w", index, err)
	}

	var out common.ContractInfo
	if err := json.Unmarshal(buffer, &out); err != nil {
		return fmt.Errorf("unable to decode entry %d: %w", index, err)
	}
	*info = out
	return nil
}

// Each reads every entry in order and stops at the first error.
func (r *Reader) Each(fn func(index int64, info common.ContractInfo) error) error {
	for i := int64(0); i < r.EntryCount(); i++ {
		var info common.ContractInfo
		if err := r.Read(i, &info); err != nil {
			return err
		}
		if err := fn(i, info); err != nil {
			return err
		}
	}
	return nil
}

func (r *Reader) index() error {
	size := int64(r.reader.Len())
	chunk := make([]byte, chunkSize)

	var start int64
	for pos := int64(0); pos < size; {
		n, err := r.reader.ReadAt(chunk, pos)
		if err != nil && err != io.EOF {
			return fmt.Errorf("unable to index data source %q: %w", r.dataSourceName, err)
		}
		for i := 0; i < n; i++ {
			if chunk[i] == '\n' {
				end := pos + int64(i)
				r.addLine(start, end)
				start = end + 1
			}
		}
		pos += int64(n)
		if n == 0 {
			break
		}
	}
	r.addLine(start, size)
	return nil
}

func (r *Reader) addLine(start, end int64) {
	if end <= start {
		return
	}
	peek := make([]byte, end-start)
	if _, err := r.reader.ReadAt(peek, start); err != nil && err != io.EOF {
		return
	}
	if len(bytes.TrimSpace(peek)) == 0 {
		return
	}
	r.lines = append(r.lines, span{offset: start, length: int(end - start)})
}
