package nafdata

import (
	"bytes"
	"fmt"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestVarint(t *testing.T) {
	t.Parallel()

	Convey("VarInt round-trip", t, func() {
		values := []uint64{0, 1, 127, 128, 300, 1 << 20, 1 << 40, ^uint64(0)}
		for _, v := range values {
			v := v
			Convey(fmt.Sprintf("value %d", v), func() {
				buf := &bytes.Buffer{}
				So(WriteUvarint(buf, v), ShouldBeNil)
				got, err := ReadUvarint(byteReader{Reader: bytes.NewReader(buf.Bytes())})
				So(err, ShouldBeNil)
				So(got, ShouldEqual, v)
			})
		}
	})

	Convey("truncated varint", t, func() {
		buf := []byte{0x80, 0x80}
		_, err := ReadUvarint(byteReader{Reader: bytes.NewReader(buf)})
		So(err, ShouldNotBeNil)
		var ts *TruncatedStreamError
		So(err, ShouldHaveSameTypeAs, ts)
	})
}
