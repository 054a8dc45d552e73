package station

import "testing"

func TestParseType(t *testing.T) {
	tests := []struct {
		input string
		want  Type
		ok    bool
	}{
		{"mbc", TypeMBC, true},
		{"kbs", TypeKBS, true},
		{"sbs", TypeSBS, true},
		{"static", TypeStatic, true},
		{"", "", false},
		{"MBC", "", false},
		{"podcast", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseType(tt.input)
			if ok != tt.ok {
				t.Fatalf("ParseType(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("ParseType(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestChannelValidation(t *testing.T) {
	if !MBCStandardFM.Valid() || !MBCFM4U.Valid() {
		t.Error("known MBC channels should be valid")
	}
	if MBCChannel("am").Valid() {
		t.Error("unknown MBC channel should be invalid")
	}

	for _, c := range []KBSChannel{KBSRadio1, KBSHappyFM, KBSRadio3, KBSClassicFM, KBSCoolFM} {
		if !c.Valid() {
			t.Errorf("KBS channel %q should be valid", c)
		}
	}
	if KBSChannel("99").Valid() {
		t.Error("unknown KBS channel should be invalid")
	}

	if !SBSGorillaM.Valid() {
		t.Error("SBS Gorilla M should be valid")
	}
	if SBSChannel("Gorilla").Valid() {
		t.Error("unknown SBS channel should be invalid")
	}
}

func TestChannelNameSentinel(t *testing.T) {
	if got := MBCChannel("am").Name(); got != "알 수 없는 MBC 채널" {
		t.Errorf("unknown MBC channel name = %q", got)
	}
	if got := KBSChannel("99").Name(); got != "알 수 없는 KBS 채널" {
		t.Errorf("unknown KBS channel name = %q", got)
	}
	if got := SBSChannel("X").Name(); got != "알 수 없는 SBS 채널" {
		t.Errorf("unknown SBS channel name = %q", got)
	}
}

func TestChannelFallbackByID(t *testing.T) {
	tests := []struct {
		name string
		st   Station
		want string
	}{
		{"explicit selector wins", Station{ID: "kbs2", Type: TypeKBS, KBSChannel: KBSCoolFM}, string(KBSCoolFM)},
		{"kbs2 maps to Happy FM", Station{ID: "kbs2", Type: TypeKBS}, string(KBSHappyFM)},
		{"kbs1fm maps to Classic FM", Station{ID: "kbs1fm", Type: TypeKBS}, string(KBSClassicFM)},
		{"unknown kbs id defaults to Happy FM", Station{ID: "kbs9", Type: TypeKBS}, string(KBSHappyFM)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(tt.st.KBSChannelOrDefault()); got != tt.want {
				t.Errorf("KBSChannelOrDefault() = %q, want %q", got, tt.want)
			}
		})
	}

	if got := (Station{ID: "mbc_fm4u", Type: TypeMBC}).MBCChannelOrDefault(); got != MBCFM4U {
		t.Errorf("mbc_fm4u fallback = %q, want %q", got, MBCFM4U)
	}
	if got := (Station{ID: "sbs_gorilla", Type: TypeSBS}).SBSChannelOrDefault(); got != SBSGorillaM {
		t.Errorf("sbs_gorilla fallback = %q, want %q", got, SBSGorillaM)
	}
}

func TestDefaults(t *testing.T) {
	defaults := Defaults()
	if len(defaults) == 0 {
		t.Fatal("Defaults() returned no stations")
	}

	seen := make(map[string]bool, len(defaults))
	for _, st := range defaults {
		if st.ID == "" || st.Name == "" || st.API == "" {
			t.Errorf("station %+v has empty required field", st)
		}
		if seen[st.ID] {
			t.Errorf("duplicate station id %q", st.ID)
		}
		seen[st.ID] = true

		if !st.Type.Valid() {
			t.Errorf("station %q has invalid type %q", st.ID, st.Type)
		}

		switch st.Type {
		case TypeMBC:
			if !st.MBCChannelOrDefault().Valid() {
				t.Errorf("station %q resolves to invalid MBC channel", st.ID)
			}
		case TypeKBS:
			if !st.KBSChannelOrDefault().Valid() {
				t.Errorf("station %q resolves to invalid KBS channel", st.ID)
			}
		case TypeSBS:
			if !st.SBSChannelOrDefault().Valid() {
				t.Errorf("station %q resolves to invalid SBS channel", st.ID)
			}
		}
	}
}

func TestDefaultsReturnsFreshSlice(t *testing.T) {
	a := Defaults()
	a[0].Name = "changed"
	if b := Defaults(); b[0].Name == "changed" {
		t.Error("Defaults() shares state between calls")
	}
}
