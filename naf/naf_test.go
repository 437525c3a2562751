package naf

import (
	"bytes"
	"io"
	"testing"

	"github.com/althonos/nafcodec/nafdata"
	"github.com/althonos/nafcodec/store"
	. "github.com/smartystreets/goconvey/convey"
)

func encodeAll(t *testing.T, records []*Record, options ...EncoderOption) []byte {
	buf := &bytes.Buffer{}
	enc, err := NewEncoder(buf, options...)
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}
	for _, r := range records {
		if err := enc.Push(r); err != nil {
			t.Fatalf("Push: %v", err)
		}
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	return buf.Bytes()
}

func decodeAll(t *testing.T, data []byte, options ...DecoderOption) []*Record {
	dec, err := NewDecoder(bytes.NewReader(data), options...)
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}
	var out []*Record
	for {
		rec, err := dec.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		out = append(out, rec)
	}
	if err := dec.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	return out
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	Convey("S1: empty archive", t, func() {
		data := encodeAll(t, nil)
		dec, err := NewDecoder(bytes.NewReader(data))
		So(err, ShouldBeNil)
		So(dec.Len(), ShouldEqual, uint64(0))
		_, err = dec.Next()
		So(err, ShouldEqual, io.EOF)
	})

	Convey("S2: single DNA record, no mask, no quality", t, func() {
		records := []*Record{
			{ID: "seq1", HasID: true, Comment: "", HasComment: true, Length: 4, Sequence: "ACGT", HasSequence: true},
		}
		data := encodeAll(t, records, WithFields(FieldIDs|FieldComments|FieldLengths|FieldSequence))
		got := decodeAll(t, data)
		So(len(got), ShouldEqual, 1)
		So(got[0].ID, ShouldEqual, "seq1")
		So(got[0].Sequence, ShouldEqual, "ACGT")
	})

	Convey("S3: record with soft mask", t, func() {
		records := []*Record{
			{ID: "seq1", HasID: true, Length: 4, Sequence: "AcgT", HasSequence: true},
		}
		data := encodeAll(t, records, WithFields(FieldIDs|FieldLengths|FieldMask|FieldSequence))
		got := decodeAll(t, data)
		So(len(got), ShouldEqual, 1)
		So(got[0].Sequence, ShouldEqual, "AcgT")
	})

	Convey("S4: two records, continuous nibble cursor", t, func() {
		records := []*Record{
			{ID: "a", HasID: true, Length: 3, Sequence: "ACG", HasSequence: true},
			{ID: "b", HasID: true, Length: 3, Sequence: "TAC", HasSequence: true},
		}
		data := encodeAll(t, records, WithFields(FieldIDs|FieldLengths|FieldSequence))
		got := decodeAll(t, data)
		So(len(got), ShouldEqual, 2)
		So(got[0].Sequence, ShouldEqual, "ACG")
		So(got[1].Sequence, ShouldEqual, "TAC")
	})

	Convey("S5: quality stream round-trips verbatim (v2)", t, func() {
		records := []*Record{
			{ID: "a", HasID: true, Length: 5, Sequence: "ACGTA", HasSequence: true, Quality: "!!!!!", HasQuality: true},
		}
		data := encodeAll(t, records, WithFields(FieldIDs|FieldLengths|FieldSequence|FieldQuality))
		got := decodeAll(t, data)
		So(len(got), ShouldEqual, 1)
		So(got[0].Quality, ShouldEqual, "!!!!!")
		So(got[0].HasQuality, ShouldBeTrue)
	})

	Convey("S6: selective decode skips unselected streams without breaking cursors", t, func() {
		records := []*Record{
			{ID: "a", HasID: true, Length: 4, Sequence: "ACGT", HasSequence: true, Quality: "IIII", HasQuality: true},
			{ID: "b", HasID: true, Length: 3, Sequence: "TAC", HasSequence: true, Quality: "III", HasQuality: true},
		}
		data := encodeAll(t, records, WithFields(FieldIDs|FieldLengths|FieldSequence|FieldQuality))

		got := decodeAll(t, data, WithDecoderFields(FieldIDs|FieldSequence))
		So(len(got), ShouldEqual, 2)
		So(got[0].Sequence, ShouldEqual, "ACGT")
		So(got[0].HasQuality, ShouldBeFalse)
		So(got[1].Sequence, ShouldEqual, "TAC")
	})

	Convey("checksum trailer round-trip", t, func() {
		records := []*Record{
			{ID: "a", HasID: true, Length: 4, Sequence: "ACGT", HasSequence: true},
		}
		data := encodeAll(t, records,
			WithFields(FieldIDs|FieldLengths|FieldSequence),
			WithChecksum(nafdata.ChecksumSHA256),
		)

		dec, err := NewDecoder(bytes.NewReader(data), WithChecksumVerification(VerifyEarly))
		So(err, ShouldBeNil)
		_, err = dec.Next()
		So(err, ShouldBeNil)

		Convey("flipping a body byte breaks verification", func() {
			corrupt := append([]byte(nil), data...)
			corrupt[len(corrupt)/2] ^= 0xFF
			_, err := NewDecoder(bytes.NewReader(corrupt), WithChecksumVerification(VerifyEarly))
			So(err, ShouldNotBeNil)
			var mismatch *nafdata.ErrMismatchedChecksum
			So(err, ShouldHaveSameTypeAs, mismatch)
		})
	})

	Convey("spill factory equivalence: Memory and TempDir produce identical archives", t, func() {
		records := []*Record{
			{ID: "seq1", HasID: true, Length: 4, Sequence: "ACGT", HasSequence: true},
			{ID: "seq2", HasID: true, Length: 3, Sequence: "TAC", HasSequence: true},
		}
		memData := encodeAll(t, records, WithFields(FieldIDs|FieldLengths|FieldSequence), WithSpillFactory(store.Memory{}))
		fileData := encodeAll(t, records, WithFields(FieldIDs|FieldLengths|FieldSequence), WithSpillFactory(store.TempDir{}))
		So(memData, ShouldResemble, fileData)
	})

	Convey("title round-trips verbatim", t, func() {
		data := encodeAll(t, nil, WithTitle("an example archive"))
		dec, err := NewDecoder(bytes.NewReader(data))
		So(err, ShouldBeNil)
		So(dec.Header.Title, ShouldEqual, "an example archive")
	})
}
