package logging

import (
	"bytes"
	"encoding/json"
	"io"
	"sync"
	"time"
)

var bufferPool = sync.Pool{
	New: func() any {
		return new(bytes.Buffer)
	},
}

type JSONWriter struct {
	ioWriter io.Writer
	sep      string
}

func NewJSONWriter(ioWriter io.Writer) LogWriter {
	return NewJSONWriterWithSep(ioWriter, "")
}

func NewlineSeparatedJSONWriter(ioWriter io.Writer) LogWriter {
	return NewJSONWriterWithSep(ioWriter, "\n")
}

func NewJSONWriterWithSep(ioWriter io.Writer, sep string) LogWriter {
	return &JSONWriter{
		ioWriter: ioWriter,
		sep:      sep,
	}
}

func (w *JSONWriter) Write(entity *LogEntity) {
	buffer := bufferPool.Get().(*bytes.Buffer)
	defer func() {
		buffer.Reset()
		bufferPool.Put(buffer)
	}()
	w.writeEntity(buffer, entity)
	w.ioWriter.Write(buffer.Bytes())
}

func (w *JSONWriter) writeEntity(buffer *bytes.Buffer, entity *LogEntity) {
	buffer.WriteRune('{')
	w.writeKVPair(buffer, "timestamp", entity.Timestamp.Format(time.RFC3339))
	buffer.WriteRune(',')
	w.writeKVPair(buffer, "file", entity.File)
	buffer.WriteRune(',')
	w.writeKVPair(buffer, "level", LogLevelPrefixMap[entity.Level])
	buffer.WriteRune(',')
	w.writeKVPair(buffer, "prefix", entity.Prefix)
	buffer.WriteRune(',')
	w.writeKVPair(buffer, "message", entity.Message)
	buffer.WriteRune(',')
	ctxStr, _ := json.Marshal(entity.Context)
	buffer.WriteString(`"context":`)
	buffer.Write(ctxStr)
	buffer.WriteRune('}')
	buffer.WriteString(w.sep)
}

func (w *JSONWriter) writeKVPair(b *bytes.Buffer, k, v string) {
	vStr, _ := json.Marshal(v)
	b.WriteRune('"')
	b.WriteString(k)
	b.WriteString(`":`)
	b.Write(vStr)
}
