// SPDX-License-Identifier: GPL-3.0-or-later

package nbt

// Value is an NBT value. The set of implementations is closed: the scalar
// types below, [Compound] and the [List] variants.
type Value interface {
	// Tag returns the tag written before the value's payload.
	Tag() Tag

	appendPayload(dst []byte, depth int) ([]byte, error)
}

type (
	Byte      int8
	Short     int16
	Int       int32
	Long      int64
	Float     float32
	Double    float64
	ByteArray []byte
	String    string
	IntArray  []int32
	LongArray []int64
)

func (Byte) Tag() Tag      { return TagByte }
func (Short) Tag() Tag     { return TagShort }
func (Int) Tag() Tag       { return TagInt }
func (Long) Tag() Tag      { return TagLong }
func (Float) Tag() Tag     { return TagFloat }
func (Double) Tag() Tag    { return TagDouble }
func (ByteArray) Tag() Tag { return TagByteArray }
func (String) Tag() Tag    { return TagString }
func (Compound) Tag() Tag  { return TagCompound }
func (IntArray) Tag() Tag  { return TagIntArray }
func (LongArray) Tag() Tag { return TagLongArray }

// Entry is a named member of a [Compound].
type Entry struct {
	Name  string
	Value Value
}

// Compound is an ordered sequence of named values. Duplicate names are
// preserved as read.
type Compound []Entry

// Get returns the value of the first entry called name.
func (c Compound) Get(name string) (Value, bool) {
	for _, entry := range c {
		if entry.Name == name {
			return entry.Value, true
		}
	}
	return nil, false
}
