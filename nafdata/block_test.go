package nafdata

import (
	"bytes"
	"io"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestBlockIndex(t *testing.T) {
	t.Parallel()

	Convey("block index parses exactly the flagged columns, in fixed order", t, func() {
		buf := &bytes.Buffer{}

		// ids block: 3 original bytes, 5 compressed bytes (content irrelevant here)
		So(WriteBlockEntry(buf, 3, 5), ShouldBeNil)
		buf.Write([]byte{1, 2, 3, 4, 5})

		// sequence block: 4 original bytes, 2 compressed bytes
		So(WriteBlockEntry(buf, 4, 2), ShouldBeNil)
		buf.Write([]byte{9, 9})

		flags := Flags(0).Set(FlagIDs).Set(FlagSequence)
		r := bytes.NewReader(buf.Bytes())
		entries, err := ReadBlockIndex(r, flags)
		So(err, ShouldBeNil)
		So(len(entries), ShouldEqual, 2)

		ids, ok := Find(entries, FlagIDs)
		So(ok, ShouldBeTrue)
		So(ids.OriginalSize, ShouldEqual, uint64(3))
		So(ids.CompressedSize, ShouldEqual, uint64(5))

		seq, ok := Find(entries, FlagSequence)
		So(ok, ShouldBeTrue)
		So(seq.OriginalSize, ShouldEqual, uint64(4))
		So(seq.CompressedSize, ShouldEqual, uint64(2))

		// no bytes left unaccounted for
		rest, err := io.ReadAll(r)
		So(err, ShouldBeNil)
		So(len(rest), ShouldEqual, 0)
	})

	Convey("a column flagged present but missing from the input fails to parse", t, func() {
		buf := &bytes.Buffer{}
		So(WriteBlockEntry(buf, 3, 5), ShouldBeNil)
		buf.Write([]byte{1, 2, 3, 4, 5})

		flags := Flags(0).Set(FlagIDs).Set(FlagComments)
		entries, err := ReadBlockIndex(bytes.NewReader(buf.Bytes()), flags)
		// comments is flagged present but has no bytes written for it here,
		// so this should fail reading its size varint.
		So(err, ShouldNotBeNil)
		_ = entries
	})
}
