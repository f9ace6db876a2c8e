// SPDX-License-Identifier: GPL-3.0-or-later

package protocol

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/bassosimone/runtimex"
)

// Union is implemented by the variants of a tagged union field.
//
// A union field has an interface type embedding Union, registered using
// [RegisterUnion]. It is encoded as VarInt(UnionCase()) followed by the
// [Marshal] encoding of the variant, without any presence flag.
type Union interface {
	UnionCase() int32
}

var unionType = reflect.TypeFor[Union]()

// unions maps a union interface [reflect.Type] to its variant factories.
var unions sync.Map

// RegisterUnion binds the cases of the union interface U to factories
// of its variants. Each factory must return a new variant on each call;
// variants decode in place when the factory returns a pointer.
//
// Registering the same U twice panics.
func RegisterUnion[U Union](variants map[int32]func() U) {
	t := reflect.TypeFor[U]()
	runtimex.Assert(t.Kind() == reflect.Interface && len(variants) > 0)
	factories := make(map[int32]func() Union, len(variants))
	for id, factory := range variants {
		runtimex.Assert(factory != nil)
		factories[id] = func() Union { return factory() }
	}
	_, loaded := unions.LoadOrStore(t, factories)
	runtimex.Assert(!loaded)
}

func unionOf(t reflect.Type) (map[int32]func() Union, error) {
	if !t.Implements(unionType) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
	}
	factories, found := unions.Load(t)
	if !found {
		return nil, fmt.Errorf("%w: unregistered union %s", ErrUnsupportedType, t)
	}
	return factories.(map[int32]func() Union), nil
}

// unionVariant returns the addressable value holding the fields of the
// variant stored in the union v.
func unionVariant(v reflect.Value) reflect.Value {
	variant := v.Elem()
	if variant.Kind() == reflect.Pointer {
		return variant.Elem()
	}
	addressable := reflect.New(variant.Type()).Elem()
	addressable.Set(variant)
	return addressable
}

func writeUnion(e *Encoder, v reflect.Value) error {
	factories, err := unionOf(v.Type())
	if err != nil {
		return err
	}
	if v.IsNil() || (v.Elem().Kind() == reflect.Pointer && v.Elem().IsNil()) {
		return fmt.Errorf("%w: nil %s", ErrUnsupportedType, v.Type())
	}
	id := v.Interface().(Union).UnionCase()
	if _, found := factories[id]; !found {
		return fmt.Errorf("%w: %s case %d", ErrInvalidEnum, v.Type(), id)
	}
	e.WriteVarInt(id)
	return writeValue(e, unionVariant(v), fieldOpts{bits: 32})
}

func readUnion(d *Decoder, v reflect.Value) error {
	factories, err := unionOf(v.Type())
	if err != nil {
		return err
	}
	id, err := d.ReadVarInt()
	if err != nil {
		return err
	}
	factory, found := factories[id]
	if !found {
		return fmt.Errorf("%w: %s case %d", ErrInvalidEnum, v.Type(), id)
	}
	variant := reflect.ValueOf(factory())
	if variant.Kind() != reflect.Pointer {
		variant = reflect.New(variant.Type()).Elem()
	}
	target := variant
	if target.Kind() == reflect.Pointer {
		target = target.Elem()
	}
	if err := readValue(d, target, fieldOpts{bits: 32}); err != nil {
		return err
	}
	v.Set(variant)
	return nil
}

func sizeHintUnion(v reflect.Value) int {
	if v.IsNil() || !v.Type().Implements(unionType) {
		return 0
	}
	if v.Elem().Kind() == reflect.Pointer && v.Elem().IsNil() {
		return 1
	}
	return 1 + sizeHintValue(unionVariant(v), fieldOpts{bits: 32})
}
