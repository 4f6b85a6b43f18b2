package hash

import (
	"errors"
	"reflect"
	"strconv"
	"strings"
	"sync"
)

const hashPrefix = "HashPrefix"

type fieldOpts struct {
	Prefix    bool
	OmitEmpty bool
	Length    int
	Inline    bool
}

type fieldInfo struct {
	Index []int
	Name  string
	Type  reflect.Type
	Opts  fieldOpts
}

type typeInfo struct {
	Struct     reflect.Type
	Type       reflect.Type
	HashPrefix *fieldInfo
	Fields     []*fieldInfo
}

func (ti *typeInfo) normalize() error {
	var fields []*fieldInfo
	for _, f := range ti.Fields {
		if f.Opts.Inline && (f.Opts.Prefix || f.Opts.Length == 0) {
			return errors.New("invalid tag in field " + ti.Struct.String() + "." + f.Name + ": inline requires length and no prefix")
		}
		if f.Opts.OmitEmpty && f.Opts.Inline {
			return errors.New("invalid tag in field " + ti.Struct.String() + "." + f.Name + ": omitempty conflicts with inline")
		}
		if f.Opts.Prefix {
			ti.HashPrefix = f
			continue
		}
		fields = append(fields, f)
	}
	ti.Fields = fields
	return nil
}

func getRawTypeInfo(t reflect.Type) *typeInfo {
	ti := &typeInfo{Type: t}
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		tag := sf.Tag.Get("hash")
		if (sf.PkgPath != "" && !sf.Anonymous) || tag == "-" {
			continue
		}
		if sf.Anonymous {
			st := sf.Type
			for st.Kind() == reflect.Ptr {
				st = st.Elem()
			}
			if st.Kind() == reflect.Struct {
				for _, fi := range getRawTypeInfo(st).Fields {
					fi.Index = append([]int{i}, fi.Index...)
					ti.Fields = append(ti.Fields, fi)
				}
				continue
			}
		}
		fi := &fieldInfo{
			Index: sf.Index,
			Name:  sf.Name,
			Type:  sf.Type,
		}
		if fi.Name == hashPrefix {
			fi.Opts.Prefix = true
		}
		if st := indirectType(fi.Type); st.Kind() == reflect.Array && st.Elem().Kind() == reflect.Uint8 {
			fi.Opts.Length = st.Len()
		}
		var part string
		for tag != "" {
			i := strings.IndexByte(tag, ',')
			if i < 0 {
				part, tag = tag, ""
			} else {
				part, tag = tag[:i], tag[i+1:]
			}
			switch {
			case part == "omitempty":
				fi.Opts.OmitEmpty = true
			case part == "inline":
				fi.Opts.Inline = true
			case strings.HasPrefix(part, "length:"):
				if v, err := strconv.ParseUint(part[7:], 10, 32); err == nil {
					fi.Opts.Length = int(v)
				}
			}
		}
		ti.Fields = append(ti.Fields, fi)
	}
	return ti
}

var typeCache sync.Map // map[reflect.Type]*typeInfo

func getTypeInfo(t reflect.Type) (*typeInfo, error) {
	typ := indirectType(t)
	f, ok := typeCache.Load(typ)
	if !ok {
		info := getRawTypeInfo(typ)
		info.Struct = t
		if err := info.normalize(); err != nil {
			return nil, err
		}
		f, _ = typeCache.LoadOrStore(typ, info)
	}
	ti := &(*f.(*typeInfo))
	ti.Struct = t
	return ti, nil
}

func indirectType(typ reflect.Type) reflect.Type {
	for typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	return typ
}
