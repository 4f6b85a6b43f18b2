package hash

import (
	"encoding"
	"reflect"
	"strconv"
	"strings"
)

var textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()

// UnmarshalTypeError describes a fragment of a hash string that was
// not appropriate for a value of a specific Go type.
type UnmarshalTypeError struct {
	Value  string       // description of the offending fragment
	Type   reflect.Type // type of Go value it could not be assigned to
	Struct string       // name of the struct type containing the field
	Field  string       // the full path to the field
	Msg    string       // description of the error
}

func (e *UnmarshalTypeError) Error() string {
	if e.Struct != "" && e.Field != "" {
		return "cannot unmarshal " + e.Value + " into Go struct field " + e.Struct + "." + e.Field + " of type " + e.Type.String() + ": " + e.Msg
	}
	return "cannot unmarshal " + e.Value + " into Go value of type " + e.Type.String() + ": " + e.Msg
}

// InvalidUnmarshalError describes an invalid argument passed to Unmarshal.
// (The argument to Unmarshal must be a non-nil struct pointer.)
type InvalidUnmarshalError struct {
	Type reflect.Type
}

func (e *InvalidUnmarshalError) Error() string {
	if e.Type == nil {
		return "Unmarshal(nil)"
	}
	if e.Type.Kind() != reflect.Ptr {
		return "Unmarshal(non-pointer " + e.Type.String() + ")"
	}
	return "Unmarshal(nil " + e.Type.String() + ")"
}

// HashSyntaxError describes a hash string whose overall '$'-delimited
// shape doesn't match what the target struct declares.
type HashSyntaxError struct {
	Msg string
}

func (e *HashSyntaxError) Error() string {
	return "invalid hash syntax: " + e.Msg
}

// Unmarshal parses the hash string and stores the result in the value
// pointed to by v. If v is nil, not a pointer, or not a pointer to a
// struct, Unmarshal returns an InvalidUnmarshalError.
//
// Unmarshal walks the target struct's fields in the same order Marshal
// writes them in: the HashPrefix field (if any) consumes the leading
// "$xxx$" fragment, then each remaining field consumes either a fresh
// '$'-delimited fragment or, if the previous field was tagged "inline",
// a prefix of what is left over from the fragment the previous field
// shared with it.
func Unmarshal(hash string, v interface{}) error {
	val := reflect.ValueOf(v)
	if val.Kind() != reflect.Ptr || val.IsNil() {
		return &InvalidUnmarshalError{reflect.TypeOf(v)}
	}
	sval := val.Elem()
	if sval.Kind() != reflect.Struct {
		return &InvalidUnmarshalError{reflect.TypeOf(v)}
	}
	ti, err := getTypeInfo(val.Type())
	if err != nil {
		return err
	}
	if !strings.HasPrefix(hash, "$") {
		return &HashSyntaxError{Msg: "hash must start with '$'"}
	}
	segs := strings.Split(hash[1:], "$")
	segIdx := 0
	if ti.HashPrefix != nil {
		if segIdx >= len(segs) {
			return &UnmarshalTypeError{
				Value:  "EOF",
				Type:   ti.HashPrefix.Type,
				Struct: ti.Struct.String(),
				Field:  ti.HashPrefix.Name,
				Msg:    "prefix not found",
			}
		}
		prefixText := "$" + segs[segIdx] + "$"
		segIdx++
		if err := unmarshalField(ti, ti.HashPrefix, unmarshalIndirect(sval.FieldByIndex(ti.HashPrefix.Index)), prefixText); err != nil {
			return err
		}
	}
	var cur string
	for _, fi := range ti.Fields {
		if cur == "" {
			if segIdx >= len(segs) {
				if fi.Opts.OmitEmpty {
					continue
				}
				return &UnmarshalTypeError{
					Value:  "EOF",
					Type:   fi.Type,
					Struct: ti.Struct.String(),
					Field:  fi.Name,
					Msg:    "unexpected end of hash",
				}
			}
			cur = segs[segIdx]
			segIdx++
		}
		s := cur
		if fi.Opts.Length > 0 {
			if len(cur) < fi.Opts.Length {
				return &UnmarshalTypeError{
					Value:  strconv.Quote(cur),
					Type:   fi.Type,
					Struct: ti.Struct.String(),
					Field:  fi.Name,
					Msg:    "length mismatch",
				}
			}
			s = cur[:fi.Opts.Length]
			cur = cur[fi.Opts.Length:]
		} else {
			cur = ""
		}
		if err := unmarshalField(ti, fi, unmarshalIndirect(sval.FieldByIndex(fi.Index)), s); err != nil {
			return err
		}
		if cur != "" && !fi.Opts.Inline {
			return &HashSyntaxError{Msg: "unexpected data after field " + fi.Name}
		}
	}
	if cur != "" || segIdx < len(segs) {
		return &HashSyntaxError{Msg: "excessive fragment in hash"}
	}
	return nil
}

func unmarshalField(ti *typeInfo, fi *fieldInfo, v reflect.Value, s string) error {
	ft := indirectType(fi.Type)
	if v.CanInterface() && ft.Implements(textUnmarshalerType) {
		if err := v.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s)); err != nil {
			return newUnmarshalError(ti, fi, s, err.Error())
		}
		return nil
	}
	if v.CanAddr() {
		a := v.Addr()
		if a.CanInterface() && a.Type().Implements(textUnmarshalerType) {
			if err := a.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s)); err != nil {
				return newUnmarshalError(ti, fi, s, err.Error())
			}
			return nil
		}
	}
	switch ft.Kind() {
	case reflect.Array, reflect.Slice:
		if ft.Elem().Kind() == reflect.Uint8 {
			if v.Kind() == reflect.Slice {
				v.Set(reflect.MakeSlice(v.Type(), len(s), len(s)))
			}
			for i := 0; i < len(s) && i < v.Len(); i++ {
				v.Index(i).SetUint(uint64(s[i]))
			}
			return nil
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(s, 10, ft.Bits())
		if err != nil {
			return newUnmarshalError(ti, fi, s, err.Error())
		}
		v.SetInt(n)
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(s, 10, ft.Bits())
		if err != nil {
			return newUnmarshalError(ti, fi, s, err.Error())
		}
		v.SetUint(n)
		return nil
	case reflect.String:
		v.SetString(s)
		return nil
	}
	return newUnmarshalError(ti, fi, s, "unsupported type")
}

func newUnmarshalError(ti *typeInfo, fi *fieldInfo, s, msg string) error {
	return &UnmarshalTypeError{
		Value:  strconv.Quote(s),
		Type:   fi.Type,
		Struct: ti.Struct.String(),
		Field:  fi.Name,
		Msg:    msg,
	}
}

func unmarshalIndirect(v reflect.Value) reflect.Value {
	for {
		switch v.Kind() {
		case reflect.Ptr:
			if v.IsNil() {
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		default:
			return v
		}
	}
}
