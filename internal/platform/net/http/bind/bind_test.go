package bind

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	perr "combatscore/internal/platform/errors"
	"combatscore/internal/platform/testkit"
)

type opts struct {
	Name    string        `json:"name" validate:"required,min=2"`
	Workers int           `json:"workers" validate:"min=1"`
	Mode    string        `json:"mode" validate:"oneof=a b"`
	Hidden  string        `json:"-" validate:"required"`
	Plain   int           `validate:"max=3"`
	Wait    time.Duration `json:"wait"`
}

func valid() opts { return opts{Name: "ok", Workers: 1, Mode: "a", Hidden: "x"} }

func TestStruct_OK(t *testing.T) {
	if err := Struct(valid()); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
}

func TestStruct_FieldNamesAndMessages(t *testing.T) {
	cases := []struct {
		name      string
		mutate    func(*opts)
		wantField string
		wantMsg   string
	}{
		{"json tag min", func(o *opts) { o.Workers = 0 }, "workers", "workers must be at least 1"},
		{"json tag required", func(o *opts) { o.Name = "" }, "name", "name is a required field"},
		{"oneof", func(o *opts) { o.Mode = "z" }, "mode", "mode must be one of [a b]"},
		{"dash uses field name", func(o *opts) { o.Hidden = "" }, "Hidden", "Hidden is a required field"},
		{"no tag uses field name", func(o *opts) { o.Plain = 9 }, "Plain", "Plain must be at most 3"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			o := valid()
			tc.mutate(&o)
			err := Struct(o)
			if perr.CodeOf(err) != perr.ErrorCodeValidation {
				t.Fatalf("code=%v err=%v", perr.CodeOf(err), err)
			}
			e, _ := perr.As(err)
			if e.Field() != tc.wantField {
				t.Fatalf("field=%q want %q", e.Field(), tc.wantField)
			}
			if err.Error() != tc.wantMsg {
				t.Fatalf("msg=%q want %q", err.Error(), tc.wantMsg)
			}
		})
	}
}

func TestStruct_InvalidTarget(t *testing.T) {
	if err := Struct(nil); perr.CodeOf(err) != perr.ErrorCodeUnknown || err == nil {
		t.Fatalf("expected internal error, got %v", err)
	}
}

func TestRegisterValidation_CustomTagMessage(t *testing.T) {
	type thing struct {
		Color string `json:"color" validate:"colour"`
	}
	err := RegisterValidation("colour", "{0} must be a colour", func(fl FieldLevel) bool {
		return fl.Field().String() == "red"
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := Struct(thing{Color: "red"}); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	err = Struct(thing{Color: "blue"})
	if err == nil || err.Error() != "color must be a colour" {
		t.Fatalf("got %v", err)
	}
}

type q struct {
	Limit   int           `query:"limit" validate:"min=0"`
	Desc    bool          `query:"desc"`
	Order   string        `query:"order"`
	Ratio   float64       `query:"ratio"`
	Count   uint8         `query:"count"`
	Wait    time.Duration `query:"wait"`
	Skipped string
}

func TestQuery_BindsKinds(t *testing.T) {
	r := httptest.NewRequest("GET", "/?limit=5&desc=true&order=%20desc%20&ratio=0.5&count=7&wait=2s&Skipped=x", nil)
	got, err := Query[q](r)
	if err != nil {
		t.Fatal(err)
	}
	want := q{Limit: 5, Desc: true, Order: "desc", Ratio: 0.5, Count: 7, Wait: 2 * time.Second}
	if got != want {
		t.Fatalf("got %+v want %+v", got, want)
	}
}

func TestQuery_ParseFailureIsInvalidArgument(t *testing.T) {
	for _, raw := range []string{"limit=x", "desc=maybe", "count=300", "wait=soon", "ratio=a"} {
		_, err := Query[q](httptest.NewRequest("GET", "/?"+raw, nil))
		if perr.CodeOf(err) != perr.ErrorCodeInvalidArgument {
			t.Fatalf("%s: code=%v err=%v", raw, perr.CodeOf(err), err)
		}
	}
}

func TestQuery_ValidationFailure(t *testing.T) {
	_, err := Query[q](httptest.NewRequest("GET", "/?limit=-1", nil))
	if perr.CodeOf(err) != perr.ErrorCodeValidation {
		t.Fatalf("got %v", err)
	}
	testkit.MustContain(t, err.Error(), "limit must be at least 0")
}

func TestQuery_NonStructTarget(t *testing.T) {
	if _, err := Query[int](httptest.NewRequest("GET", "/", nil)); err == nil {
		t.Fatal("expected error for non struct target")
	}
}

func TestValidationFieldAndMessage_GenericError(t *testing.T) {
	f, m := ValidationFieldAndMessage(errors.New("plain"))
	if f != "" || m != "plain" {
		t.Fatalf("got %q %q", f, m)
	}
	if f, m := ValidationFieldAndMessage(nil); f != "" || m != "" {
		t.Fatalf("nil should give empties")
	}
}
