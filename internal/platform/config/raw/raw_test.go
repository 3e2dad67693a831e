package raw

import "testing"

func TestConfGet(t *testing.T) {
	t.Setenv("LOG_LEVEL", " warn ")
	t.Setenv("COMBATSCORE_DATA_DIR", " /srv/data ")

	root := New()
	logc := root.Prefix("LOG_")

	tests := []struct {
		name string
		conf Conf
		key  string
		def  string
		want string
	}{
		{name: "root trimmed", conf: root, key: "COMBATSCORE_DATA_DIR", def: "x", want: "/srv/data"},
		{name: "prefixed hit", conf: logc, key: "LEVEL", def: "info", want: "warn"},
		{name: "missing returns default", conf: logc, key: "FORMAT", def: "console", want: "console"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.conf.Get(tt.key, tt.def); got != tt.want {
				t.Fatalf("Get(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestConfGetBool(t *testing.T) {
	c := New().Prefix("B_")
	for _, v := range []string{"1", "true", "YES", "on"} {
		t.Setenv("B_FLAG", v)
		if !c.GetBool("FLAG", false) {
			t.Fatalf("GetBool(%q) = false, want true", v)
		}
	}
	t.Setenv("B_FLAG", "nope")
	if c.GetBool("FLAG", true) {
		t.Fatalf("GetBool(nope) = true, want false")
	}
	if !c.GetBool("UNSET", true) {
		t.Fatalf("GetBool(unset) should return default")
	}
}

func TestConfGetInt(t *testing.T) {
	c := New().Prefix("I_")
	t.Setenv("I_OK", " 12 ")
	t.Setenv("I_BAD", "1x")
	t.Setenv("I_NEG", "-3")
	if got := c.GetInt("OK", 0); got != 12 {
		t.Fatalf("GetInt(OK) = %d, want 12", got)
	}
	if got := c.GetInt("BAD", 7); got != 7 {
		t.Fatalf("GetInt(BAD) = %d, want default 7", got)
	}
	if got := c.GetInt("NEG", 7); got != 7 {
		t.Fatalf("GetInt(NEG) = %d, want default 7", got)
	}
	if got := c.GetInt("UNSET", 3); got != 3 {
		t.Fatalf("GetInt(UNSET) = %d, want 3", got)
	}
}
