package pkg

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

func TestFileOperate(t *testing.T) {
	convey.Convey("check file exist", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "maps.ent")
		exist, err := CheckFileExist(path)
		convey.So(err, convey.ShouldBeNil)
		convey.So(exist, convey.ShouldBeFalse)

		convey.So(os.WriteFile(path, []byte("{}"), 0o644), convey.ShouldBeNil)
		exist, err = CheckFileExist(path)
		convey.So(err, convey.ShouldBeNil)
		convey.So(exist, convey.ShouldBeTrue)

		data, err := ReadInput(path, nil)
		convey.So(err, convey.ShouldBeNil)
		convey.So(string(data), convey.ShouldEqual, "{}")
	})

	convey.Convey("stdin and stdout", t, func() {
		data, err := ReadInput("-", strings.NewReader("{ a b }"))
		convey.So(err, convey.ShouldBeNil)
		convey.So(string(data), convey.ShouldEqual, "{ a b }")

		var buf bytes.Buffer
		w, closeFn, err := WriteOutput("", &buf)
		convey.So(err, convey.ShouldBeNil)
		_, _ = w.Write([]byte("ok"))
		convey.So(closeFn(), convey.ShouldBeNil)
		convey.So(buf.String(), convey.ShouldEqual, "ok")
	})

	convey.Convey("output file", t, func() {
		path := filepath.Join(t.TempDir(), "out.json")
		w, closeFn, err := WriteOutput(path, nil)
		convey.So(err, convey.ShouldBeNil)
		_, _ = w.Write([]byte("[]"))
		convey.So(closeFn(), convey.ShouldBeNil)
		data, err := os.ReadFile(path)
		convey.So(err, convey.ShouldBeNil)
		convey.So(string(data), convey.ShouldEqual, "[]")
	})
}
