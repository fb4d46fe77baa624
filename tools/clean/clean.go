package clean

import (
	"io"

	log "github.com/sirupsen/logrus"

	"ontbc_go/tools/fastx"
)

// Stats counts what Clean saw.
type Stats struct {
	Kept    int
	Dropped int
}

// Clean copies every record of path that carries a quality string to w as
// 4-line FASTQ. Records without quality, or with an empty one, are dropped.
func Clean(path string, w io.Writer) (Stats, error) {
	var st Stats
	out := fastx.NewWriter(w)
	err := fastx.Each(path, func(rec *fastx.Record) error {
		if !rec.HasQuality || rec.Quality == "" {
			st.Dropped++
			log.Debugf("drop %q: no quality", rec.Name)
			return nil
		}
		st.Kept++
		return out.Write(rec)
	})
	if err != nil {
		return st, err
	}
	return st, out.Flush()
}
