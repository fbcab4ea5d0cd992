// Package jsontime fixes the wire format of time.Time values: output is
// always UTC in RFC 3339 form, and date strings are parsed only when the
// target field is a time.Time. Values decoded into any stay strings.
package jsontime

import (
	"reflect"
	"time"
	"unsafe"

	jsoniter "github.com/json-iterator/go"
	"github.com/modern-go/reflect2"
)

var timeType = reflect.TypeOf(time.Time{})

// Extension returns the jsoniter extension enforcing the package's date
// policy. format is the output layout; RFC3339Nano round-trips instants.
func Extension(format string) jsoniter.Extension {
	return &extension{format: format}
}

type extension struct {
	jsoniter.DummyExtension
	format string
}

func (e *extension) CreateEncoder(typ reflect2.Type) jsoniter.ValEncoder {
	if typ.Type1() == timeType {
		return &codec{format: e.format}
	}
	return nil
}

func (e *extension) CreateDecoder(typ reflect2.Type) jsoniter.ValDecoder {
	if typ.Type1() == timeType {
		return &codec{format: e.format}
	}
	return nil
}

type codec struct {
	format string
}

func (c *codec) IsEmpty(ptr unsafe.Pointer) bool {
	return (*time.Time)(ptr).IsZero()
}

func (c *codec) Encode(ptr unsafe.Pointer, stream *jsoniter.Stream) {
	t := *(*time.Time)(ptr)
	stream.WriteString(t.UTC().Format(c.format))
}

func (c *codec) Decode(ptr unsafe.Pointer, iter *jsoniter.Iterator) {
	if iter.WhatIsNext() == jsoniter.NilValue {
		iter.ReadNil()
		*(*time.Time)(ptr) = time.Time{}
		return
	}
	s := iter.ReadString()
	if s == "" {
		*(*time.Time)(ptr) = time.Time{}
		return
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		t, err = time.Parse(c.format, s)
	}
	if err != nil {
		iter.ReportError("jsontime", err.Error())
		return
	}
	*(*time.Time)(ptr) = t.UTC()
}
