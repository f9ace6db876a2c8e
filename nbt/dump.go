// SPDX-License-Identifier: GPL-3.0-or-later

package nbt

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Dump writes a human-readable, indented rendering of v to w. The name is
// the root name, if any.
func Dump(w io.Writer, name string, v Value) error {
	d := &dumper{w: w}
	d.value(0, strconv.Quote(name), v)
	return d.err
}

type dumper struct {
	w   io.Writer
	err error
}

func (d *dumper) printf(indent int, format string, args ...any) {
	if d.err != nil {
		return
	}
	line := strings.Repeat("    ", indent) + fmt.Sprintf(format, args...) + "\n"
	_, d.err = io.WriteString(d.w, line)
}

func (d *dumper) value(indent int, label string, v Value) {
	if v == nil {
		d.printf(indent, "%s", TagEnd)
		return
	}
	switch v := v.(type) {
	case Byte, Short, Int, Long, Float, Double:
		d.printf(indent, "%s %s: %v", v.Tag(), label, v)
	case String:
		d.printf(indent, "%s %s: %q", v.Tag(), label, string(v))
	case ByteArray:
		d.printf(indent, "%s %s: %d bytes %x", v.Tag(), label, len(v), []byte(v))
	case IntArray:
		d.printf(indent, "%s %s: %d ints %v", v.Tag(), label, len(v), []int32(v))
	case LongArray:
		d.printf(indent, "%s %s: %d longs %v", v.Tag(), label, len(v), []int64(v))
	case Compound:
		d.printf(indent, "%s %s: %d entries", v.Tag(), label, len(v))
		for _, entry := range v {
			d.value(indent+1, strconv.Quote(entry.Name), entry.Value)
		}
	case List:
		d.printf(indent, "%s %s: %d x %s", v.Tag(), label, v.Len(), v.ElemTag())
		for idx, elem := range listValues(v) {
			d.value(indent+1, "["+strconv.Itoa(idx)+"]", elem)
		}
	}
}

// listValues returns the elements of l as tagged values.
func listValues(l List) []Value {
	switch l := l.(type) {
	case ByteList:
		return mapValues(l, func(v int8) Value { return Byte(v) })
	case ShortList:
		return mapValues(l, func(v int16) Value { return Short(v) })
	case IntList:
		return mapValues(l, func(v int32) Value { return Int(v) })
	case LongList:
		return mapValues(l, func(v int64) Value { return Long(v) })
	case FloatList:
		return mapValues(l, func(v float32) Value { return Float(v) })
	case DoubleList:
		return mapValues(l, func(v float64) Value { return Double(v) })
	case ByteArrayList:
		return mapValues(l, func(v []byte) Value { return ByteArray(v) })
	case StringList:
		return mapValues(l, func(v string) Value { return String(v) })
	case ListList:
		return mapValues(l, func(v List) Value { return v })
	case CompoundList:
		return mapValues(l, func(v Compound) Value { return v })
	case IntArrayList:
		return mapValues(l, func(v []int32) Value { return IntArray(v) })
	case LongArrayList:
		return mapValues(l, func(v []int64) Value { return LongArray(v) })
	default:
		return nil
	}
}

func mapValues[T any](items []T, fx func(T) Value) []Value {
	out := make([]Value, 0, len(items))
	for _, item := range items {
		out = append(out, fx(item))
	}
	return out
}
