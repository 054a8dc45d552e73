// Package station defines the data model for Korean live radio channels.
package station

// Type identifies how a station's stream URL and schedule are obtained.
// Every dispatch on Type must handle all four values plus a pass-through
// default for data restored from older persisted state.
type Type string

const (
	TypeMBC    Type = "mbc"
	TypeKBS    Type = "kbs"
	TypeSBS    Type = "sbs"
	TypeStatic Type = "static"
)

// ParseType maps a stored type string to a Type. Unknown strings return
// ok=false; callers treat those stations like static entries with no
// schedule metadata.
func ParseType(s string) (Type, bool) {
	switch Type(s) {
	case TypeMBC, TypeKBS, TypeSBS, TypeStatic:
		return Type(s), true
	}
	return "", false
}

// Valid reports whether t is one of the four known station types.
func (t Type) Valid() bool {
	_, ok := ParseType(string(t))
	return ok
}

// MBCChannel selects one of the MBC radio channels in schedule requests.
type MBCChannel string

const (
	MBCStandardFM MBCChannel = "fm"
	MBCFM4U       MBCChannel = "fm4u"
)

func (c MBCChannel) Valid() bool {
	switch c {
	case MBCStandardFM, MBCFM4U:
		return true
	}
	return false
}

func (c MBCChannel) Name() string {
	switch c {
	case MBCStandardFM:
		return "MBC 표준FM"
	case MBCFM4U:
		return "MBC FM4U"
	}
	return "알 수 없는 MBC 채널"
}

// KBSChannel is a KBS channel_code value.
type KBSChannel string

const (
	KBSRadio1    KBSChannel = "21"
	KBSHappyFM   KBSChannel = "22"
	KBSRadio3    KBSChannel = "23"
	KBSClassicFM KBSChannel = "24"
	KBSCoolFM    KBSChannel = "25"
)

func (c KBSChannel) Valid() bool {
	switch c {
	case KBSRadio1, KBSHappyFM, KBSRadio3, KBSClassicFM, KBSCoolFM:
		return true
	}
	return false
}

func (c KBSChannel) Name() string {
	switch c {
	case KBSRadio1:
		return "KBS 1라디오"
	case KBSHappyFM:
		return "KBS 해피FM"
	case KBSRadio3:
		return "KBS 3라디오"
	case KBSClassicFM:
		return "KBS 클래식FM"
	case KBSCoolFM:
		return "KBS 쿨FM"
	}
	return "알 수 없는 KBS 채널"
}

// SBSChannel selects the per-channel schedule document on the SBS CDN.
// GorillaM carries a literal '+' in the published path.
type SBSChannel string

const (
	SBSPowerFM  SBSChannel = "Power"
	SBSLoveFM   SBSChannel = "Love"
	SBSGorillaM SBSChannel = "DMB+Radio"
)

func (c SBSChannel) Valid() bool {
	switch c {
	case SBSPowerFM, SBSLoveFM, SBSGorillaM:
		return true
	}
	return false
}

func (c SBSChannel) Name() string {
	switch c {
	case SBSPowerFM:
		return "SBS 파워FM"
	case SBSLoveFM:
		return "SBS 러브FM"
	case SBSGorillaM:
		return "SBS 고릴라M"
	}
	return "알 수 없는 SBS 채널"
}

// CurrentProgram is the normalized "on air now" snapshot produced by the
// schedule adapters. Derived per enrichment pass, never persisted.
type CurrentProgram struct {
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle,omitempty"`
	StartTime   string `json:"startTime"` // display form HH:MM
	EndTime     string `json:"endTime"`   // display form HH:MM
	Players     string `json:"players,omitempty"`
	Producer    string `json:"producer,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
	HomepageURL string `json:"homepageUrl,omitempty"`
	Description string `json:"description,omitempty"`
	ChannelName string `json:"channelName,omitempty"`
}

// Station is one radio channel the listener can play. A station belongs
// to exactly one of the active and excluded collections at any time and
// its ID is unique across their union.
type Station struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type Type   `json:"type"`
	API  string `json:"api"`

	MBCChannel MBCChannel `json:"mbcChannelType,omitempty"`
	KBSChannel KBSChannel `json:"kbsChannelCode,omitempty"`
	SBSChannel SBSChannel `json:"sbsChannelType,omitempty"`

	CurrentProgram *CurrentProgram `json:"currentProgram,omitempty"`
}

// MBCChannelOrDefault resolves the schedule channel for an MBC station:
// the explicit selector if set, else a mapping by station id, else 표준FM.
func (s Station) MBCChannelOrDefault() MBCChannel {
	if s.MBCChannel != "" {
		return s.MBCChannel
	}
	if s.ID == "mbc_fm4u" {
		return MBCFM4U
	}
	return MBCStandardFM
}

// KBSChannelOrDefault resolves the schedule channel for a KBS station.
func (s Station) KBSChannelOrDefault() KBSChannel {
	if s.KBSChannel != "" {
		return s.KBSChannel
	}
	switch s.ID {
	case "kbs1":
		return KBSRadio1
	case "kbs3":
		return KBSRadio3
	case "kbs1fm":
		return KBSClassicFM
	case "kbs2fm":
		return KBSCoolFM
	}
	return KBSHappyFM
}

// SBSChannelOrDefault resolves the schedule channel for an SBS station.
func (s Station) SBSChannelOrDefault() SBSChannel {
	if s.SBSChannel != "" {
		return s.SBSChannel
	}
	switch s.ID {
	case "sbs_lovefm":
		return SBSLoveFM
	case "sbs_gorilla":
		return SBSGorillaM
	}
	return SBSPowerFM
}

// ChannelName returns the broadcaster channel display name for the
// station, or the station's own name for static entries.
func (s Station) ChannelName() string {
	switch s.Type {
	case TypeMBC:
		return s.MBCChannelOrDefault().Name()
	case TypeKBS:
		return s.KBSChannelOrDefault().Name()
	case TypeSBS:
		return s.SBSChannelOrDefault().Name()
	}
	return s.Name
}

// Defaults returns the built-in seed playlist. Restoring persisted state
// falls back to this list when the stored JSON is unusable, and Reset
// replaces both collections with it.
func Defaults() []Station {
	return []Station{
		{
			ID:         "mbc_sfm",
			Name:       "MBC 표준FM",
			Type:       TypeMBC,
			API:        "https://sminiplay.imbc.com/aacplay.ashx?agent=webapp&channel=sfm",
			MBCChannel: MBCStandardFM,
		},
		{
			ID:         "mbc_fm4u",
			Name:       "MBC FM4U",
			Type:       TypeMBC,
			API:        "https://sminiplay.imbc.com/aacplay.ashx?agent=webapp&channel=mfm",
			MBCChannel: MBCFM4U,
		},
		{
			ID:         "kbs1",
			Name:       "KBS 1라디오",
			Type:       TypeKBS,
			API:        "https://cfpwwwapi.kbs.co.kr/api/v1/landing/live/channel_code/21",
			KBSChannel: KBSRadio1,
		},
		{
			ID:         "kbs2",
			Name:       "KBS 해피FM",
			Type:       TypeKBS,
			API:        "https://cfpwwwapi.kbs.co.kr/api/v1/landing/live/channel_code/22",
			KBSChannel: KBSHappyFM,
		},
		{
			ID:         "kbs1fm",
			Name:       "KBS 클래식FM",
			Type:       TypeKBS,
			API:        "https://cfpwwwapi.kbs.co.kr/api/v1/landing/live/channel_code/24",
			KBSChannel: KBSClassicFM,
		},
		{
			ID:         "kbs2fm",
			Name:       "KBS 쿨FM",
			Type:       TypeKBS,
			API:        "https://cfpwwwapi.kbs.co.kr/api/v1/landing/live/channel_code/25",
			KBSChannel: KBSCoolFM,
		},
		{
			ID:         "sbs_powerfm",
			Name:       "SBS 파워FM",
			Type:       TypeSBS,
			API:        "https://apis.sbs.co.kr/play-api/1.0/livestream/powerpc/powerfm?protocol=hls&ssl=Y",
			SBSChannel: SBSPowerFM,
		},
		{
			ID:         "sbs_lovefm",
			Name:       "SBS 러브FM",
			Type:       TypeSBS,
			API:        "https://apis.sbs.co.kr/play-api/1.0/livestream/lovepc/lovefm?protocol=hls&ssl=Y",
			SBSChannel: SBSLoveFM,
		},
		{
			ID:   "cbs_musicfm",
			Name: "CBS 음악FM",
			Type: TypeStatic,
			API:  "https://aac.cbs.co.kr/cbs939/_definst_/cbs939.stream/playlist.m3u8",
		},
		{
			ID:   "ebs_fm",
			Name: "EBS FM",
			Type: TypeStatic,
			API:  "https://ebsonair.ebs.co.kr/fmradiofamilypc/familypc1m/playlist.m3u8",
		},
	}
}
