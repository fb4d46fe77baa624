package fastx

import (
	"bufio"
	"io"
	"strings"
)

// Record is one FASTA or FASTQ entry. HasQuality is false for FASTA-shaped
// records and for FASTQ records whose quality data was cut short.
type Record struct {
	Name       string
	Sequence   string
	Quality    string
	HasQuality bool
}

// Reader pulls records one at a time from a FASTA or FASTQ stream, deciding
// the kind of each record from its own lines. It is forward-only; reopen the
// source to read it again.
type Reader struct {
	r *bufio.Reader

	// pending is a header or '+' line already consumed while reading the
	// previous record's sequence. It belongs to the record that follows.
	pending    string
	hasPending bool

	done bool
}

func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReaderSize(r, 1<<20)}
}

// readLine returns the next line without its terminator. ok is false once the
// input is exhausted.
func (r *Reader) readLine() (line string, ok bool, err error) {
	line, err = r.r.ReadString('\n')
	if err == io.EOF {
		if line == "" {
			return "", false, nil
		}
		err = nil
	}
	if err != nil {
		return "", false, err
	}
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, true, nil
}

// recordName is the header token before the first whitespace, without the marker.
func recordName(header string) string {
	h := header[1:]
	if i := strings.IndexAny(h, " \t"); i >= 0 {
		return h[:i]
	}
	return h
}

// Next returns the next record, or io.EOF when the stream holds no more.
func (r *Reader) Next() (*Record, error) {
	if r.done {
		return nil, io.EOF
	}

	// seek header
	if !r.hasPending {
		for {
			line, ok, err := r.readLine()
			if err != nil {
				return nil, err
			}
			if !ok {
				r.done = true
				return nil, io.EOF
			}
			if strings.HasPrefix(line, ">") || strings.HasPrefix(line, "@") {
				r.pending, r.hasPending = line, true
				break
			}
		}
	}
	name := recordName(r.pending)
	r.pending, r.hasPending = "", false

	// sequence lines up to the next header or separator
	var seq strings.Builder
	for {
		line, ok, err := r.readLine()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		if line != "" && strings.ContainsRune("@+>", rune(line[0])) {
			r.pending, r.hasPending = line, true
			break
		}
		seq.WriteString(line)
	}

	if !r.hasPending || r.pending[0] != '+' {
		if !r.hasPending {
			r.done = true
		}
		return &Record{Name: name, Sequence: seq.String()}, nil
	}

	// quality lines until they cover the sequence
	r.pending, r.hasPending = "", false
	sequence := seq.String()
	var qual strings.Builder
	for {
		line, ok, err := r.readLine()
		if err != nil {
			return nil, err
		}
		if !ok {
			// truncated record: keep the sequence, drop the quality, stop
			r.done = true
			return &Record{Name: name, Sequence: sequence}, nil
		}
		qual.WriteString(line)
		if qual.Len() >= len(sequence) {
			return &Record{Name: name, Sequence: sequence, Quality: qual.String(), HasQuality: true}, nil
		}
	}
}
