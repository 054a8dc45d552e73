package schedule

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/qwer999/radio/internal/station"
	"github.com/qwer999/radio/internal/timeutil"
	"github.com/rs/zerolog/log"
)

const sbsBaseURL = "https://static.cloud.sbs.co.kr"

// SBSProgram is one raw entry of the SBS daily schedule document.
// Program boundaries are colon-delimited HH:MM strings.
type SBSProgram struct {
	Title        string `json:"title"`
	ProgramCode  string `json:"programcode"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	Guest        string `json:"guest"`
	Description  string `json:"description"`
	ProgramImage string `json:"program_image"`
	HomepageURL  string `json:"homepage_url"`
}

// SBSClient fetches the SBS radio schedule from the schedule CDN.
type SBSClient struct {
	client *resty.Client
	cache  *Cache
	now    func() time.Time
}

func NewSBSClient(cache *Cache) *SBSClient {
	return &SBSClient{
		client: resty.New().SetBaseURL(sbsBaseURL).SetTimeout(requestTimeout),
		cache:  cache,
		now:    time.Now,
	}
}

// The CDN publishes one document per channel per day under an
// unpadded year/month/day path.
func sbsSchedulePath(channel station.SBSChannel, day time.Time) string {
	return fmt.Sprintf("/schedule/%d/%d/%d/%s.json",
		day.Year(), int(day.Month()), day.Day(), string(channel))
}

// FetchSchedule returns the schedule for the given channel and day (the
// zero time means today). Empty on any failure.
func (c *SBSClient) FetchSchedule(channel station.SBSChannel, day time.Time) []SBSProgram {
	if !channel.Valid() {
		log.Warn().Str("channel", string(channel)).Msg("Unsupported SBS channel")
		return nil
	}

	var cached []SBSProgram
	if c.cache.Get(BroadcasterSBS, string(channel), &cached) {
		return cached
	}

	if day.IsZero() {
		day = c.now()
	}

	resp, err := c.client.R().Get(sbsSchedulePath(channel, day))
	if err != nil {
		log.Warn().Err(err).Str("channel", string(channel)).Msg("SBS schedule request failed")
		return nil
	}
	if !resp.IsSuccess() {
		log.Warn().Int("status", resp.StatusCode()).Str("channel", string(channel)).
			Msg("SBS schedule request rejected")
		return nil
	}

	var programs []SBSProgram
	if err := json.Unmarshal(resp.Body(), &programs); err != nil {
		log.Warn().Err(err).Str("channel", string(channel)).Msg("Failed to parse SBS schedule")
		return nil
	}

	c.cache.Put(BroadcasterSBS, string(channel), programs)
	return programs
}

// CurrentProgram returns the program airing at ref, or nil. Boundaries
// compare at minute granularity, the interval is half-open, and entries
// whose times do not parse are skipped.
func (c *SBSClient) CurrentProgram(channel station.SBSChannel, programs []SBSProgram, ref time.Time) *station.CurrentProgram {
	now := timeutil.MinuteOfDay(ref)
	for _, p := range programs {
		if p.Title == "" || p.StartTime == "" || p.EndTime == "" {
			continue
		}
		start, ok := timeutil.ClockMinutes(p.StartTime)
		if !ok {
			continue
		}
		end, ok := timeutil.ClockMinutes(p.EndTime)
		if !ok {
			continue
		}
		if now >= start && now < end {
			return c.normalize(channel, p)
		}
	}
	return nil
}

func (c *SBSClient) normalize(channel station.SBSChannel, p SBSProgram) *station.CurrentProgram {
	return &station.CurrentProgram{
		Title:       p.Title,
		Subtitle:    p.ProgramCode,
		StartTime:   p.StartTime,
		EndTime:     p.EndTime,
		Players:     p.Guest,
		ImageURL:    p.ProgramImage,
		HomepageURL: p.HomepageURL,
		Description: p.Description,
		ChannelName: channel.Name(),
	}
}

// Daily returns the normalized full-day listing for the channel.
func (c *SBSClient) Daily(channel station.SBSChannel, day time.Time) DailySchedule {
	if day.IsZero() {
		day = c.now()
	}

	daily := DailySchedule{
		ChannelName: channel.Name(),
		DateDisplay: timeutil.FormatDateDisplay(timeutil.DateKey(day)),
	}

	for _, p := range c.FetchSchedule(channel, day) {
		if p.Title == "" || p.StartTime == "" || p.EndTime == "" {
			continue
		}
		daily.Programs = append(daily.Programs, *c.normalize(channel, p))
	}
	return daily
}
