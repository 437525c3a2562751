package nafdata

import (
	"bytes"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestMask(t *testing.T) {
	t.Parallel()

	Convey("MaskWriter emits [1,2,1] for AcgT", t, func() {
		buf := &bytes.Buffer{}
		w := NewMaskWriter(buf)
		// A unmasked, c masked, g masked, T unmasked
		So(w.Push(false, 1), ShouldBeNil)
		So(w.Push(true, 2), ShouldBeNil)
		So(w.Push(false, 1), ShouldBeNil)
		So(w.Close(), ShouldBeNil)

		r := NewMaskReader(bytes.NewReader(buf.Bytes()))
		var runs []struct {
			masked bool
			count  uint64
		}
		err := r.Advance(4, func(masked bool, count uint64) {
			runs = append(runs, struct {
				masked bool
				count  uint64
			}{masked, count})
		})
		So(err, ShouldBeNil)
		So(len(runs), ShouldEqual, 3)
		So(runs[0].masked, ShouldBeFalse)
		So(runs[0].count, ShouldEqual, uint64(1))
		So(runs[1].masked, ShouldBeTrue)
		So(runs[1].count, ShouldEqual, uint64(2))
		So(runs[2].masked, ShouldBeFalse)
		So(runs[2].count, ShouldEqual, uint64(1))
	})

	Convey("the run cursor carries over from one record to the next", t, func() {
		buf := &bytes.Buffer{}
		w := NewMaskWriter(buf)
		// record 1: "ACG" all unmasked; record 2: "tac" all masked
		So(w.Push(false, 3), ShouldBeNil)
		So(w.Push(true, 3), ShouldBeNil)
		So(w.Close(), ShouldBeNil)

		r := NewMaskReader(bytes.NewReader(buf.Bytes()))
		var total int
		err := r.Advance(3, func(masked bool, count uint64) {
			So(masked, ShouldBeFalse)
			total += int(count)
		})
		So(err, ShouldBeNil)
		err = r.Advance(3, func(masked bool, count uint64) {
			So(masked, ShouldBeTrue)
			total += int(count)
		})
		So(err, ShouldBeNil)
		So(total, ShouldEqual, 6)
	})
}
