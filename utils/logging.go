package common

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"
)

// levelFormatter prints "[INFO] message key=value ...", one entry per line.
type levelFormatter struct{}

func (levelFormatter) Format(e *log.Entry) ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('[')
	b.WriteString(strings.ToUpper(e.Level.String()))
	b.WriteString("] ")
	b.WriteString(e.Message)
	keys := make([]string, 0, len(e.Data))
	for k := range e.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, e.Data[k])
	}
	b.WriteByte('\n')
	return b.Bytes(), nil
}

// SetupLogging configures the shared logrus logger used by every tool.
func SetupLogging(verbose bool) {
	log.SetOutput(os.Stderr)
	log.SetFormatter(levelFormatter{})
	if verbose {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}
