package contentstack

import (
	"reflect"
	"time"
	"unsafe"

	jsoniter "github.com/json-iterator/go"
	"github.com/modern-go/reflect2"

	"github.com/AHagemannCK/contentstack-management-go/internal/jsontime"
)

// DateFormat is the layout used for serialized dates. RFC 3339 with
// nanoseconds round-trips an instant exactly.
const DateFormat = time.RFC3339Nano

// Converter customizes the wire format of a single Go type. Converters are
// registered explicitly at client construction via WithConverters; there is
// no runtime discovery.
type Converter interface {
	// Type is the Go type the converter handles.
	Type() reflect.Type
	// Marshal renders v, a value of Type, as JSON.
	Marshal(v any) ([]byte, error)
	// Unmarshal parses data into v, a pointer to Type.
	Unmarshal(data []byte, v any) error
}

// newSerializer freezes the client's serializer settings: dates are written
// as UTC RFC 3339 strings and never auto-parsed out of untyped values, and
// registered converters override the default codec for their types. Null
// omission follows the usual Go convention: optional fields are pointers
// tagged omitempty, so nil is absent from output.
func newSerializer(converters []Converter) jsoniter.API {
	api := jsoniter.Config{
		EscapeHTML:             false,
		SortMapKeys:            true,
		ValidateJsonRawMessage: true,
		CaseSensitive:          true,
	}.Froze()

	api.RegisterExtension(jsontime.Extension(DateFormat))
	if len(converters) > 0 {
		api.RegisterExtension(newConverterExtension(converters))
	}

	return api
}

// converterExtension routes types with a registered Converter through it.
type converterExtension struct {
	jsoniter.DummyExtension
	converters map[reflect.Type]Converter
}

func newConverterExtension(converters []Converter) *converterExtension {
	byType := make(map[reflect.Type]Converter, len(converters))
	for _, conv := range converters {
		byType[conv.Type()] = conv
	}
	return &converterExtension{converters: byType}
}

func (e *converterExtension) CreateEncoder(typ reflect2.Type) jsoniter.ValEncoder {
	if conv, ok := e.converters[typ.Type1()]; ok {
		return &converterCodec{typ: typ, conv: conv}
	}
	return nil
}

func (e *converterExtension) CreateDecoder(typ reflect2.Type) jsoniter.ValDecoder {
	if conv, ok := e.converters[typ.Type1()]; ok {
		return &converterCodec{typ: typ, conv: conv}
	}
	return nil
}

type converterCodec struct {
	typ  reflect2.Type
	conv Converter
}

func (c *converterCodec) IsEmpty(unsafe.Pointer) bool { return false }

func (c *converterCodec) Encode(ptr unsafe.Pointer, stream *jsoniter.Stream) {
	data, err := c.conv.Marshal(c.typ.UnsafeIndirect(ptr))
	if err != nil {
		stream.Error = err
		return
	}
	stream.WriteRaw(string(data))
}

func (c *converterCodec) Decode(ptr unsafe.Pointer, iter *jsoniter.Iterator) {
	data := iter.SkipAndReturnBytes()
	nv := reflect.New(c.typ.Type1())
	if err := c.conv.Unmarshal(data, nv.Interface()); err != nil {
		iter.ReportError("converter", err.Error())
		return
	}
	c.typ.UnsafeSet(ptr, reflect2.PtrOf(nv.Elem().Interface()))
}
