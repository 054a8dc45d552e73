package schedule

import (
	"encoding/json"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/qwer999/radio/internal/station"
	"github.com/qwer999/radio/internal/timeutil"
	"github.com/rs/zerolog/log"
)

const mbcBaseURL = "https://control.imbc.com"

// MBCProgram is one raw entry of the MBC radio schedule response.
// Program boundaries are 4-digit HHMM strings.
type MBCProgram struct {
	BroadcastID string `json:"BroadcastID"`
	BroadDate   string `json:"BroadDate"`
	Day         string `json:"Day"`
	Title       string `json:"Title"`
	SubTitle    string `json:"SubTitle"`
	StartTime   string `json:"StartTime"`
	EndTime     string `json:"EndTime"`
	Players     string `json:"Players"`
	RunningTime string `json:"RunningTime"`
	Photo       string `json:"Photo"`
	HomepageURL string `json:"HomepageURL"`
	IsOnAirNow  string `json:"IsOnAirNow"`
}

// MBCClient fetches the MBC radio schedule.
type MBCClient struct {
	client *resty.Client
	cache  *Cache
	now    func() time.Time
}

func NewMBCClient(cache *Cache) *MBCClient {
	return &MBCClient{
		client: resty.New().SetBaseURL(mbcBaseURL).SetTimeout(requestTimeout),
		cache:  cache,
		now:    time.Now,
	}
}

// FetchSchedule returns the schedule for the given channel and YYYYMMDD
// date (today when empty). Any failure - invalid selector, transport
// error, non-2xx, bad JSON - yields an empty listing; callers treat
// "empty" and "no data" identically.
func (c *MBCClient) FetchSchedule(channel station.MBCChannel, date string) []MBCProgram {
	if !channel.Valid() {
		log.Warn().Str("channel", string(channel)).Msg("Unsupported MBC channel")
		return nil
	}

	var cached []MBCProgram
	if c.cache.Get(BroadcasterMBC, string(channel), &cached) {
		return cached
	}

	if date == "" {
		date = timeutil.DateKey(c.now())
	}

	resp, err := c.client.R().
		SetQueryParams(map[string]string{
			"sType": string(channel),
			"link":  string(channel),
			"sDate": date,
		}).
		Get("/Schedule/Radio")
	if err != nil {
		log.Warn().Err(err).Str("channel", string(channel)).Msg("MBC schedule request failed")
		return nil
	}
	if !resp.IsSuccess() {
		log.Warn().Int("status", resp.StatusCode()).Str("channel", string(channel)).
			Msg("MBC schedule request rejected")
		return nil
	}

	var programs []MBCProgram
	if err := json.Unmarshal(resp.Body(), &programs); err != nil {
		log.Warn().Err(err).Str("channel", string(channel)).Msg("Failed to parse MBC schedule")
		return nil
	}

	c.cache.Put(BroadcasterMBC, string(channel), programs)
	return programs
}

// CurrentProgram returns the program airing at ref, or nil. The scan is
// first-match-wins over the half-open interval [StartTime, EndTime) in
// MBC's minute granularity; entries missing a required field are
// skipped.
func (c *MBCClient) CurrentProgram(programs []MBCProgram, ref time.Time) *station.CurrentProgram {
	now := timeutil.HHMM(ref)
	for _, p := range programs {
		if p.Title == "" || p.StartTime == "" || p.EndTime == "" {
			continue
		}
		if now >= p.StartTime && now < p.EndTime {
			return c.normalize(p)
		}
	}
	return nil
}

func (c *MBCClient) normalize(p MBCProgram) *station.CurrentProgram {
	subtitle := p.SubTitle
	if subtitle == "" {
		subtitle = p.Title
	}
	return &station.CurrentProgram{
		Title:       p.Title,
		Subtitle:    subtitle,
		StartTime:   timeutil.FormatHHMM(p.StartTime),
		EndTime:     timeutil.FormatHHMM(p.EndTime),
		Players:     p.Players,
		ImageURL:    p.Photo,
		HomepageURL: p.HomepageURL,
	}
}

// Daily returns the normalized full-day listing for the channel, used
// by the schedule view. The MBC endpoint returns several days at once;
// only entries for the requested date are kept.
func (c *MBCClient) Daily(channel station.MBCChannel, date string) DailySchedule {
	if date == "" {
		date = timeutil.DateKey(c.now())
	}

	daily := DailySchedule{
		ChannelName: channel.Name(),
		DateDisplay: timeutil.FormatDateDisplay(date),
	}

	for _, p := range c.FetchSchedule(channel, date) {
		if p.BroadDate != date {
			continue
		}
		if p.Title == "" || p.StartTime == "" || p.EndTime == "" {
			continue
		}
		daily.Programs = append(daily.Programs, *c.normalize(p))
	}
	return daily
}
