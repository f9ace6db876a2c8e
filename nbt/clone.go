// SPDX-License-Identifier: GPL-3.0-or-later

package nbt

import (
	"slices"
	"strings"
)

// Clone returns a deep copy of v that shares no memory with v, and thus
// with any buffer v was decoded from.
func Clone(v Value) Value {
	switch v := v.(type) {
	case ByteArray:
		return ByteArray(cloneBytes(v))
	case String:
		return String(strings.Clone(string(v)))
	case IntArray:
		return IntArray(slices.Clone(v))
	case LongArray:
		return LongArray(slices.Clone(v))
	case Compound:
		return cloneCompound(v)
	case List:
		return cloneList(v)
	default:
		return v // scalars and nil
	}
}

func cloneCompound(c Compound) Compound {
	if c == nil {
		return nil
	}
	out := make(Compound, 0, len(c))
	for _, entry := range c {
		out = append(out, Entry{Name: strings.Clone(entry.Name), Value: Clone(entry.Value)})
	}
	return out
}

func cloneList(l List) List {
	switch l := l.(type) {
	case ByteList:
		return ByteList(slices.Clone(l))
	case ShortList:
		return ShortList(slices.Clone(l))
	case IntList:
		return IntList(slices.Clone(l))
	case LongList:
		return LongList(slices.Clone(l))
	case FloatList:
		return FloatList(slices.Clone(l))
	case DoubleList:
		return DoubleList(slices.Clone(l))
	case ByteArrayList:
		return ByteArrayList(cloneEach(l, cloneBytes))
	case StringList:
		return StringList(cloneEach(l, strings.Clone))
	case ListList:
		return ListList(cloneEach(l, cloneList))
	case CompoundList:
		return CompoundList(cloneEach(l, cloneCompound))
	case IntArrayList:
		return IntArrayList(cloneEach(l, slices.Clone[[]int32]))
	case LongArrayList:
		return LongArrayList(cloneEach(l, slices.Clone[[]int64]))
	default:
		return l
	}
}

func cloneBytes(b []byte) []byte {
	return slices.Clone(b)
}

func cloneEach[T any](items []T, fx func(T) T) []T {
	if items == nil {
		return nil
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		out = append(out, fx(item))
	}
	return out
}
