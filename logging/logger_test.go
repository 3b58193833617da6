package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/dlshle/nscache/errors"
	"github.com/dlshle/nscache/test_utils"
)

func TestLevelLogger(t *testing.T) {
	var buf bytes.Buffer
	test_utils.NewGroup("logging", "level logger").Cases(
		test_utils.New("water mark filters lower levels", func() {
			buf.Reset()
			l := NewLevelLogger(&buf, "[test]", WARN)
			l.Info(context.Background(), "hidden")
			l.Warnf(context.Background(), "shown %d", 1)
			out := buf.String()
			test_utils.AssertFalse(strings.Contains(out, "hidden"))
			test_utils.AssertTrue(strings.Contains(out, "[WARN] [test]"))
			test_utils.AssertTrue(strings.Contains(out, "shown 1"))
		}),
		test_utils.New("ctx and logger contexts are merged", func() {
			buf.Reset()
			l := NewLevelLogger(&buf, "", LogAllWaterMark).WithContext(map[string]string{"a": "1"})
			ctx := WrapCtx(context.Background(), "namespace", "ns")
			l.Info(ctx, "hello", " world")
			out := buf.String()
			test_utils.AssertTrue(strings.Contains(out, "{a:1;namespace:ns} hello world"))
		}),
		test_utils.New("goroutine context is picked up when enabled", func() {
			buf.Reset()
			l := CreateLevelLogger(NewConsoleLogWriter(&buf), "", LogAllWaterMark)
			SetGR("sweep", "ns")
			defer ClearGR()
			test_utils.AssertEquals(GetGR("sweep"), "ns")
			l.Debug(context.Background(), "tick")
			test_utils.AssertTrue(strings.Contains(buf.String(), "sweep:ns"))
			buf.Reset()
			l.WithGRContextLogging(false).Debug(context.Background(), "tick")
			test_utils.AssertFalse(strings.Contains(buf.String(), "sweep:ns"))
		}),
		test_utils.New("json writer emits one object per line", func() {
			buf.Reset()
			l := CreateLevelLogger(NewlineSeparatedJSONWriter(&buf), "p", LogAllWaterMark)
			l.TrackableErrorf(context.Background(), errors.Error("boom"), "failed %s", "op")
			line := strings.TrimSpace(buf.String())
			var decoded map[string]interface{}
			test_utils.AssertNil(json.Unmarshal([]byte(line), &decoded))
			test_utils.AssertEquals(decoded["level"].(string), "ERROR")
			test_utils.AssertTrue(strings.HasPrefix(decoded["message"].(string), "failed op"))
		}),
	).Do(t)
}
