package store

import (
	"io"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestMemorySpill(t *testing.T) {
	t.Parallel()

	Convey("Memory spill is writable then forward-readable", t, func() {
		f := Memory{}
		s, err := f.New()
		So(err, ShouldBeNil)

		n, err := s.Write([]byte("hello"))
		So(err, ShouldBeNil)
		So(n, ShouldEqual, 5)
		So(s.Len(), ShouldEqual, int64(5))

		So(s.Close(), ShouldBeNil)

		r, err := s.Reader()
		So(err, ShouldBeNil)
		got, err := io.ReadAll(r)
		So(err, ShouldBeNil)
		So(string(got), ShouldEqual, "hello")
		So(r.Close(), ShouldBeNil)
	})
}

func TestTempDirSpill(t *testing.T) {
	t.Parallel()

	Convey("TempDir spill writes through a scratch file and cleans up after read", t, func() {
		f := TempDir{}
		s, err := f.New()
		So(err, ShouldBeNil)

		_, err = s.Write([]byte("world"))
		So(err, ShouldBeNil)
		So(s.Close(), ShouldBeNil)

		r, err := s.Reader()
		So(err, ShouldBeNil)
		got, err := io.ReadAll(r)
		So(err, ShouldBeNil)
		So(string(got), ShouldEqual, "world")
		So(r.Close(), ShouldBeNil)
	})
}
