package codec

import (
	"testing"

	gojson "github.com/goccy/go-json"
)

func benchTensor(b *testing.B) *Object {
	b.Helper()

	o, err := Encode(csrFixture())
	if err != nil {
		b.Fatal(err)
	}
	return o
}

func BenchmarkEncode(b *testing.B) {
	in := csrFixture()
	b.ReportAllocs()

	var sink *Object
	b.ResetTimer()
	for b.Loop() {
		o, err := Encode(in)
		if err != nil {
			b.Fatal(err)
		}
		sink = o
	}
	_ = sink
}

func BenchmarkDecode(b *testing.B) {
	o := benchTensor(b)
	b.ReportAllocs()

	b.ResetTimer()
	for b.Loop() {
		if _, err := Decode(o); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParseMetadata(b *testing.B) {
	o := benchTensor(b)

	data, err := gojson.Marshal(&o.Meta)
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.SetBytes(int64(len(data)))

	b.ResetTimer()
	for b.Loop() {
		if _, err := ParseMetadata(data); err != nil {
			b.Fatal(err)
		}
	}
}
