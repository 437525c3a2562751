package nafdata

import (
	"bytes"
	"io"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestBlockCompression(t *testing.T) {
	t.Parallel()

	Convey("compress then open round-trips the payload", t, func() {
		payload := bytes.Repeat([]byte("ACGTACGTACGT"), 50)

		compressed, originalSize, err := CompressBlock(bytes.NewReader(payload), 3, int64(len(payload)))
		So(err, ShouldBeNil)
		So(originalSize, ShouldEqual, uint64(len(payload)))

		archive := &bytes.Buffer{}
		So(WriteBlockEntry(archive, originalSize, uint64(len(compressed))), ShouldBeNil)
		archive.Write(compressed)

		src := bytes.NewReader(archive.Bytes())
		flags := Flags(0).Set(FlagSequence)
		entries, err := ReadBlockIndex(src, flags)
		So(err, ShouldBeNil)
		entry, ok := Find(entries, FlagSequence)
		So(ok, ShouldBeTrue)

		rc, err := OpenBlockReader(src, entry)
		So(err, ShouldBeNil)
		got, err := io.ReadAll(rc)
		So(err, ShouldBeNil)
		So(got, ShouldResemble, payload)
		So(rc.Close(), ShouldBeNil)
	})

	Convey("a block whose decompressed size disagrees with the index is a LengthMismatchError", t, func() {
		payload := []byte("short")
		compressed, _, err := CompressBlock(bytes.NewReader(payload), 3, int64(len(payload)))
		So(err, ShouldBeNil)

		archive := &bytes.Buffer{}
		// lie about the original size
		So(WriteBlockEntry(archive, 999, uint64(len(compressed))), ShouldBeNil)
		archive.Write(compressed)

		src := bytes.NewReader(archive.Bytes())
		flags := Flags(0).Set(FlagSequence)
		entries, err := ReadBlockIndex(src, flags)
		So(err, ShouldBeNil)
		entry, _ := Find(entries, FlagSequence)

		rc, err := OpenBlockReader(src, entry)
		So(err, ShouldBeNil)
		_, _ = io.ReadAll(rc)
		err = rc.Close()
		So(err, ShouldNotBeNil)
		var lm *LengthMismatchError
		So(err, ShouldHaveSameTypeAs, lm)
	})
}
