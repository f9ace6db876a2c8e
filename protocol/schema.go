// SPDX-License-Identifier: GPL-3.0-or-later

package protocol

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/bassosimone/mcwire/nbt"
	"github.com/google/uuid"
)

// Enum is implemented by integer types accepting a closed set of values.
//
// [Unmarshal] fails with [ErrInvalidEnum] when a decoded value is not Valid.
type Enum interface {
	Valid() bool
}

var (
	byteType        = reflect.TypeFor[byte]()
	enumType        = reflect.TypeFor[Enum]()
	fieldReaderType = reflect.TypeFor[FieldReader]()
	fieldWriterType = reflect.TypeFor[FieldWriter]()
	nbtCompoundType = reflect.TypeFor[nbt.Compound]()
	nbtValueType    = reflect.TypeFor[nbt.Value]()
	sizeHinterType  = reflect.TypeFor[SizeHinter]()
	uuidType        = reflect.TypeFor[uuid.UUID]()
)

// fieldOpts holds the options parsed from an `mc` struct tag.
type fieldOpts struct {
	// varint selects the VarInt encoding of integers.
	varint bool

	// bits is the VarInt width of int and uint fields.
	bits int

	// maxChars limits the number of characters of strings.
	maxChars int

	// count is the encoding of slice lengths.
	count Count

	// borrow makes decoded strings, byte slices and NBT values alias
	// the decoder buffer.
	borrow bool
}

func parseTag(tag string) (opts fieldOpts, err error) {
	opts.bits = 32
	if tag == "" {
		return
	}
	for _, item := range strings.Split(tag, ",") {
		key, value, _ := strings.Cut(strings.TrimSpace(item), "=")
		switch key {
		case "varint":
			opts.varint, opts.bits = true, 32
		case "varlong":
			opts.varint, opts.bits = true, 64
		case "string":
		case "borrow":
			opts.borrow = true
		case "max":
			n, err := strconv.Atoi(value)
			if err != nil || n <= 0 {
				return opts, fmt.Errorf("%w: invalid max %q", ErrUnsupportedType, value)
			}
			opts.maxChars = n
		case "count":
			c, found := parseCount(value)
			if !found {
				return opts, fmt.Errorf("%w: invalid count %q", ErrUnsupportedType, value)
			}
			opts.count = c
		default:
			return opts, fmt.Errorf("%w: unknown option %q", ErrUnsupportedType, key)
		}
	}
	return
}

type fieldInfo struct {
	index int
	name  string
	opts  fieldOpts
}

type structInfo struct {
	fields []fieldInfo
	err    error
}

// structCache maps a [reflect.Type] to its [*structInfo].
var structCache sync.Map

func structInfoOf(t reflect.Type) *structInfo {
	if cached, found := structCache.Load(t); found {
		return cached.(*structInfo)
	}
	info := &structInfo{}
	for idx := range t.NumField() {
		sf := t.Field(idx)
		tag, hasTag := sf.Tag.Lookup("mc")
		if !sf.IsExported() || (hasTag && tag == "-") {
			continue
		}
		opts, err := parseTag(tag)
		if err != nil {
			info.err = fmt.Errorf("%s.%s: %w", t.Name(), sf.Name, err)
			break
		}
		info.fields = append(info.fields, fieldInfo{index: idx, name: sf.Name, opts: opts})
	}
	cached, _ := structCache.LoadOrStore(t, info)
	return cached.(*structInfo)
}

// Marshal appends the exported fields of the struct v, or of the struct v
// points to, in declaration order.
//
// The codec of each field follows from its type:
//
//   - types implementing [FieldWriter] encode themselves;
//   - [uuid.UUID] is a length-prefixed hyphenated string;
//   - [nbt.Compound] and [nbt.Value] are nameless NBT values, with a nil
//     compound or value written as a single End tag;
//   - bool is one byte, integers and floats are fixed-width big endian;
//   - strings are VarInt(length) followed by UTF-8 bytes;
//   - slices are a count followed by the elements;
//   - arrays are their elements without any prefix;
//   - pointers are a bool presence flag followed by the value, if any;
//   - structs are their fields;
//   - interface types embedding [Union] are VarInt(case) followed by
//     the variant, as registered with [RegisterUnion].
//
// The `mc` struct tag adjusts the codec with comma-separated options:
//
//   - "-" skips the field;
//   - "varint" encodes integers, or slice elements, as VarInt values
//     (int and uint use 32 bits);
//   - "varlong" is like varint but int and uint use 64 bits;
//   - "max=N" limits strings to N characters;
//   - "count=varint|varlong|u8|u16|i32" selects the slice count encoding;
//   - "borrow" makes [Unmarshal] alias the decoder buffer for strings,
//     byte slices and NBT values;
//   - "string" has no effect and documents the field.
//
// int and uint fields must use varint or varlong. On error the encoder
// is left as it was before the call.
func Marshal(e *Encoder, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	} else if rv.IsValid() {
		addressable := reflect.New(rv.Type()).Elem()
		addressable.Set(rv)
		rv = addressable
	}
	if !rv.IsValid() || rv.Kind() != reflect.Struct {
		return fmt.Errorf("%w: %T is not a struct", ErrUnsupportedType, v)
	}
	start := len(e.buf)
	if err := writeStruct(e, rv); err != nil {
		e.buf = e.buf[:start]
		return err
	}
	return nil
}

// Unmarshal decodes into the struct v points to, using the codecs
// described by [Marshal].
//
// The struct is only modified when decoding succeeds.
func Unmarshal(d *Decoder, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w: %T is not a pointer to struct", ErrUnsupportedType, v)
	}
	tmp := reflect.New(rv.Elem().Type()).Elem()
	if err := readStruct(d, tmp); err != nil {
		return err
	}
	rv.Elem().Set(tmp)
	return nil
}

// SizeHint returns the likely size of the [Marshal] encoding of v.
//
// The hint is only meant to pre-size buffers.
func SizeHint(v any) int {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	if !rv.IsValid() || rv.Kind() == reflect.Pointer {
		return 0
	}
	return sizeHintValue(rv, fieldOpts{bits: 32})
}

func writeStruct(e *Encoder, v reflect.Value) error {
	info := structInfoOf(v.Type())
	if info.err != nil {
		return info.err
	}
	for _, field := range info.fields {
		if err := writeValue(e, v.Field(field.index), field.opts); err != nil {
			return fmt.Errorf("%s.%s: %w", v.Type().Name(), field.name, err)
		}
	}
	return nil
}

func readStruct(d *Decoder, v reflect.Value) error {
	info := structInfoOf(v.Type())
	if info.err != nil {
		return info.err
	}
	for _, field := range info.fields {
		if err := readValue(d, v.Field(field.index), field.opts); err != nil {
			return fmt.Errorf("%s.%s: %w", v.Type().Name(), field.name, err)
		}
	}
	return nil
}

func writeValue(e *Encoder, v reflect.Value, opts fieldOpts) error {
	t := v.Type()
	if t.Kind() != reflect.Pointer && t.Implements(fieldWriterType) {
		return v.Interface().(FieldWriter).WriteField(e)
	}
	if v.CanAddr() && reflect.PointerTo(t).Implements(fieldWriterType) {
		return v.Addr().Interface().(FieldWriter).WriteField(e)
	}

	switch t {
	case uuidType:
		e.WriteUUID(v.Interface().(uuid.UUID))
		return nil
	case nbtCompoundType:
		if v.IsNil() {
			return e.WriteNBT(nil)
		}
		return e.WriteNBT(v.Interface().(nbt.Compound))
	case nbtValueType:
		if v.IsNil() {
			return e.WriteNBT(nil)
		}
		return e.WriteNBT(v.Interface().(nbt.Value))
	}

	switch t.Kind() {
	case reflect.Bool:
		e.WriteBool(v.Bool())
		return nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return writeInt(e, v, opts)

	case reflect.Float32:
		e.WriteFloat32(float32(v.Float()))
		return nil

	case reflect.Float64:
		e.WriteFloat64(v.Float())
		return nil

	case reflect.String:
		return e.WriteStringMax(v.String(), opts.maxChars)

	case reflect.Slice:
		if t.Elem() == byteType && !opts.varint {
			raw := v.Bytes()
			if err := opts.count.Write(e, len(raw)); err != nil {
				return err
			}
			e.WriteRaw(raw)
			return nil
		}
		if err := opts.count.Write(e, v.Len()); err != nil {
			return err
		}
		return writeElems(e, v, opts)

	case reflect.Array:
		return writeElems(e, v, opts)

	case reflect.Interface:
		return writeUnion(e, v)

	case reflect.Struct:
		return writeStruct(e, v)

	case reflect.Pointer:
		e.WriteBool(!v.IsNil())
		if v.IsNil() {
			return nil
		}
		return writeValue(e, v.Elem(), opts)

	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedType, t)
	}
}

func writeElems(e *Encoder, v reflect.Value, opts fieldOpts) error {
	opts.count = CountVarInt
	for idx := range v.Len() {
		if err := writeValue(e, v.Index(idx), opts); err != nil {
			return fmt.Errorf("[%d]: %w", idx, err)
		}
	}
	return nil
}

// intWidth returns the wire width in bits of an integer value.
func intWidth(v reflect.Value, opts fieldOpts) (int, error) {
	switch v.Kind() {
	case reflect.Int, reflect.Uint:
		if !opts.varint {
			return 0, fmt.Errorf("%w: %s needs varint or varlong", ErrUnsupportedType, v.Type())
		}
		return opts.bits, nil
	default:
		return v.Type().Bits(), nil
	}
}

func isSigned(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	default:
		return false
	}
}

func writeInt(e *Encoder, v reflect.Value, opts fieldOpts) error {
	bits, err := intWidth(v, opts)
	if err != nil {
		return err
	}
	var u uint64
	if isSigned(v) {
		u = uint64(v.Int())
	} else {
		u = v.Uint()
	}
	if bits < 64 {
		u &= 1<<bits - 1
	}
	if opts.varint {
		e.buf = AppendVar(e.buf, u)
		return nil
	}
	switch bits {
	case 8:
		e.WriteUint8(uint8(u))
	case 16:
		e.WriteUint16(uint16(u))
	case 32:
		e.WriteUint32(uint32(u))
	default:
		e.WriteUint64(u)
	}
	return nil
}

func readValue(d *Decoder, v reflect.Value, opts fieldOpts) error {
	t := v.Type()
	if reflect.PointerTo(t).Implements(fieldReaderType) {
		return v.Addr().Interface().(FieldReader).ReadField(d)
	}

	switch t {
	case uuidType:
		id, err := d.ReadUUID()
		if err != nil {
			return err
		}
		v.Set(reflect.ValueOf(id))
		return nil
	case nbtCompoundType:
		c, err := d.readNBTCompound(opts.borrow)
		if err != nil {
			return err
		}
		v.Set(reflect.ValueOf(c))
		return nil
	case nbtValueType:
		read := d.ReadNBT
		if opts.borrow {
			read = d.ReadNBTView
		}
		value, err := read()
		if err != nil {
			return err
		}
		if value == nil {
			v.SetZero()
			return nil
		}
		v.Set(reflect.ValueOf(value))
		return nil
	}

	switch t.Kind() {
	case reflect.Bool:
		b, err := d.ReadBool()
		if err != nil {
			return err
		}
		v.SetBool(b)
		return nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if err := readInt(d, v, opts); err != nil {
			return err
		}
		return checkEnum(v)

	case reflect.Float32, reflect.Float64:
		var (
			f   float64
			err error
		)
		if t.Kind() == reflect.Float32 {
			var f32 float32
			f32, err = d.ReadFloat32()
			f = float64(f32)
		} else {
			f, err = d.ReadFloat64()
		}
		if err != nil {
			return err
		}
		v.SetFloat(f)
		return nil

	case reflect.String:
		s, err := readString(d, opts)
		if err != nil {
			return err
		}
		v.SetString(s)
		return nil

	case reflect.Slice:
		n, err := opts.count.Read(d)
		if err != nil {
			return err
		}
		if t.Elem() == byteType && !opts.varint {
			if n > d.Remaining() {
				return ErrInvalidLength
			}
			raw, _ := d.ReadBytesN(n)
			if !opts.borrow {
				raw = append([]byte{}, raw...)
			}
			v.SetBytes(raw)
			return nil
		}
		if err := checkCount(d, n, t.Elem().Size()); err != nil {
			return err
		}
		elems := reflect.MakeSlice(t, n, n)
		if err := readElems(d, elems, opts); err != nil {
			return err
		}
		v.Set(elems)
		return nil

	case reflect.Array:
		return readElems(d, v, opts)

	case reflect.Interface:
		return readUnion(d, v)

	case reflect.Struct:
		return readStruct(d, v)

	case reflect.Pointer:
		present, err := d.ReadBool()
		if err != nil {
			return err
		}
		if !present {
			v.SetZero()
			return nil
		}
		elem := reflect.New(t.Elem())
		if err := readValue(d, elem.Elem(), opts); err != nil {
			return err
		}
		v.Set(elem)
		return nil

	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedType, t)
	}
}

func readElems(d *Decoder, v reflect.Value, opts fieldOpts) error {
	opts.count = CountVarInt
	for idx := range v.Len() {
		if err := readValue(d, v.Index(idx), opts); err != nil {
			return fmt.Errorf("[%d]: %w", idx, err)
		}
	}
	return nil
}

func readString(d *Decoder, opts fieldOpts) (string, error) {
	if !opts.borrow {
		return d.ReadStringMax(opts.maxChars)
	}
	s, err := d.ReadStringView()
	if err != nil {
		return "", err
	}
	if opts.maxChars > 0 && utf8.RuneCountInString(s) > opts.maxChars {
		return "", ErrStringTooLong
	}
	return s, nil
}

func readInt(d *Decoder, v reflect.Value, opts fieldOpts) error {
	bits, err := intWidth(v, opts)
	if err != nil {
		return err
	}
	var u uint64
	if opts.varint {
		u, err = d.readVarBits(bits)
	} else {
		switch bits {
		case 8:
			var x uint8
			x, err = d.ReadUint8()
			u = uint64(x)
		case 16:
			var x uint16
			x, err = d.ReadUint16()
			u = uint64(x)
		case 32:
			var x uint32
			x, err = d.ReadUint32()
			u = uint64(x)
		default:
			u, err = d.ReadUint64()
		}
	}
	if err != nil {
		return err
	}
	shift := 64 - bits
	if isSigned(v) {
		v.SetInt(int64(u<<shift) >> shift)
	} else {
		v.SetUint(u << shift >> shift)
	}
	return nil
}

func checkEnum(v reflect.Value) error {
	var enum Enum
	switch {
	case v.Type().Implements(enumType):
		enum = v.Interface().(Enum)
	case v.CanAddr() && reflect.PointerTo(v.Type()).Implements(enumType):
		enum = v.Addr().Interface().(Enum)
	default:
		return nil
	}
	if enum.Valid() {
		return nil
	}
	if isSigned(v) {
		return fmt.Errorf("%w: %s %d", ErrInvalidEnum, v.Type(), v.Int())
	}
	return fmt.Errorf("%w: %s %d", ErrInvalidEnum, v.Type(), v.Uint())
}

func sizeHintValue(v reflect.Value, opts fieldOpts) int {
	t := v.Type()
	if t.Kind() != reflect.Pointer && t.Implements(sizeHinterType) {
		return v.Interface().(SizeHinter).SizeHint()
	}
	switch t {
	case uuidType:
		return 1 + UUIDStringLen
	case nbtCompoundType, nbtValueType:
		return 1
	}
	switch t.Kind() {
	case reflect.Bool:
		return 1
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if opts.varint || t.Kind() == reflect.Int || t.Kind() == reflect.Uint {
			return 1
		}
		return t.Bits() / 8
	case reflect.Float32:
		return 4
	case reflect.Float64:
		return 8
	case reflect.String:
		return 1 + v.Len()
	case reflect.Slice:
		if t.Elem() == byteType && !opts.varint {
			return 1 + v.Len()
		}
		return 1 + sizeHintElems(v, opts)
	case reflect.Array:
		return sizeHintElems(v, opts)
	case reflect.Struct:
		info := structInfoOf(t)
		size := 0
		for _, field := range info.fields {
			size += sizeHintValue(v.Field(field.index), field.opts)
		}
		return size
	case reflect.Pointer:
		if v.IsNil() {
			return 1
		}
		return 1 + sizeHintValue(v.Elem(), opts)
	case reflect.Interface:
		return sizeHintUnion(v)
	default:
		return 0
	}
}

func sizeHintElems(v reflect.Value, opts fieldOpts) int {
	size := 0
	for idx := range v.Len() {
		size += sizeHintValue(v.Index(idx), opts)
	}
	return size
}
