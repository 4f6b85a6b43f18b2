package hash

import (
	"reflect"
	"testing"

	"github.com/go-bcrypt/bcrypt/internal/testutil"
)

type unsupportedFieldScheme struct {
	HashPrefix testText
	F          float64
}

func TestUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		hash string
		want scheme
		err  error
	}{
		{
			name: "full scheme",
			hash: "$t$09$saltsummed",
			want: scheme{
				HashPrefix: "$t$",
				Cost:       9,
				Salt:       []byte("salt"),
				Sum:        [6]byte{'s', 'u', 'm', 'm', 'e', 'd'},
			},
		},
		{
			name: "bad prefix",
			hash: "$bad$09saltsummed",
			err:  &UnmarshalTypeError{},
		},
		{
			name: "non numeric cost",
			hash: "$t$xxsaltsummed",
			err:  &UnmarshalTypeError{},
		},
		{
			name: "too short",
			hash: "$t$09$sal",
			err:  &UnmarshalTypeError{},
		},
		{
			name: "excessive fragment",
			hash: "$t$09$saltsummedextra",
			err:  &HashSyntaxError{},
		},
		{
			name: "missing dollar",
			hash: "t$09saltsummed",
			err:  &HashSyntaxError{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got scheme
			err := Unmarshal(tt.hash, &got)
			if tt.err != nil {
				if reflect.TypeOf(err) != reflect.TypeOf(tt.err) {
					t.Fatalf("Unmarshal() = %#v; want type %T", err, tt.err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unmarshal() = %v; want nil", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Unmarshal() = %+v; want %+v", got, tt.want)
			}
		})
	}
}

func TestUnmarshalUnsupportedFieldType(t *testing.T) {
	var got unsupportedFieldScheme
	err := Unmarshal("$t$1.5", &got)
	want := &UnmarshalTypeError{Field: "F"}
	if reflect.TypeOf(err) != reflect.TypeOf(want) {
		t.Fatalf("Unmarshal() = %#v; want type %T", err, want)
	}
	if got := err.(*UnmarshalTypeError).Type; got != testutil.FieldType(unsupportedFieldScheme{}, want.Field) {
		t.Errorf("Unmarshal() error Type = %v; want %v", got, testutil.FieldType(unsupportedFieldScheme{}, want.Field))
	}
}

func TestUnmarshalInvalidArgument(t *testing.T) {
	if err := Unmarshal("$t$09saltsummed", nil); err == nil {
		t.Fatal("Unmarshal(nil) = nil; want error")
	}
	if err := Unmarshal("$t$09saltsummed", scheme{}); err == nil {
		t.Fatal("Unmarshal(non-pointer) = nil; want error")
	}
	var notStruct int
	if err := Unmarshal("$t$09saltsummed", &notStruct); err == nil {
		t.Fatal("Unmarshal(*int) = nil; want error")
	}
}
