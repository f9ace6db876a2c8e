// SPDX-License-Identifier: GPL-3.0-or-later

package nbt

// List is a homogeneous NBT list. Every variant is written as the element
// tag, a big-endian int32 count and the untagged element payloads.
//
// Empty typed lists keep their element tag. Only [InvalidList] is written
// with element tag End and count zero.
type List interface {
	Value

	// ElemTag returns the tag of the list elements.
	ElemTag() Tag

	// Len returns the number of elements.
	Len() int
}

type (
	ByteList      []int8
	ShortList     []int16
	IntList       []int32
	LongList      []int64
	FloatList     []float32
	DoubleList    []float64
	ByteArrayList [][]byte
	StringList    []string
	ListList      []List
	CompoundList  []Compound
	IntArrayList  [][]int32
	LongArrayList [][]int64
)

// InvalidList is the list with element tag End and no elements.
type InvalidList struct{}

func (ByteList) Tag() Tag      { return TagList }
func (ShortList) Tag() Tag     { return TagList }
func (IntList) Tag() Tag       { return TagList }
func (LongList) Tag() Tag      { return TagList }
func (FloatList) Tag() Tag     { return TagList }
func (DoubleList) Tag() Tag    { return TagList }
func (ByteArrayList) Tag() Tag { return TagList }
func (StringList) Tag() Tag    { return TagList }
func (ListList) Tag() Tag      { return TagList }
func (CompoundList) Tag() Tag  { return TagList }
func (IntArrayList) Tag() Tag  { return TagList }
func (LongArrayList) Tag() Tag { return TagList }
func (InvalidList) Tag() Tag   { return TagList }

func (ByteList) ElemTag() Tag      { return TagByte }
func (ShortList) ElemTag() Tag     { return TagShort }
func (IntList) ElemTag() Tag       { return TagInt }
func (LongList) ElemTag() Tag      { return TagLong }
func (FloatList) ElemTag() Tag     { return TagFloat }
func (DoubleList) ElemTag() Tag    { return TagDouble }
func (ByteArrayList) ElemTag() Tag { return TagByteArray }
func (StringList) ElemTag() Tag    { return TagString }
func (ListList) ElemTag() Tag      { return TagList }
func (CompoundList) ElemTag() Tag  { return TagCompound }
func (IntArrayList) ElemTag() Tag  { return TagIntArray }
func (LongArrayList) ElemTag() Tag { return TagLongArray }
func (InvalidList) ElemTag() Tag   { return TagEnd }

func (l ByteList) Len() int      { return len(l) }
func (l ShortList) Len() int     { return len(l) }
func (l IntList) Len() int       { return len(l) }
func (l LongList) Len() int      { return len(l) }
func (l FloatList) Len() int     { return len(l) }
func (l DoubleList) Len() int    { return len(l) }
func (l ByteArrayList) Len() int { return len(l) }
func (l StringList) Len() int    { return len(l) }
func (l ListList) Len() int      { return len(l) }
func (l CompoundList) Len() int  { return len(l) }
func (l IntArrayList) Len() int  { return len(l) }
func (l LongArrayList) Len() int { return len(l) }
func (InvalidList) Len() int     { return 0 }
