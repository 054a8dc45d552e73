package schedule

import (
	"encoding/json"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/qwer999/radio/internal/station"
	"github.com/qwer999/radio/internal/timeutil"
	"github.com/rs/zerolog/log"
)

const kbsBaseURL = "https://static.api.kbs.co.kr"

// KBSProgram is one raw entry of the KBS weekly schedule response.
// Program boundaries are 6-digit HHMMSS strings.
type KBSProgram struct {
	ScheduleUniqueID string `json:"schedule_unique_id"`
	Title            string `json:"program_title"`
	Subtitle         string `json:"program_subtitle"`
	TableTitle       string `json:"programming_table_title"`
	StartTime        string `json:"program_planned_start_time"`
	EndTime          string `json:"program_planned_end_time"`
	DurationMinutes  string `json:"program_planned_duration_m"`
	Actor            string `json:"program_actor"`
	Staff            string `json:"program_staff"`
	Intention        string `json:"program_intention"`
	ImageWide        string `json:"image_w"`
	HomepageURL      string `json:"homepage_url"`
	ChannelCodeName  string `json:"channel_code_name"`
}

// The weekly endpoint groups its schedules by planned date.
type kbsScheduleDay struct {
	Date      string       `json:"program_planned_date"`
	Schedules []KBSProgram `json:"schedules"`
}

// KBSClient fetches the KBS radio schedule.
type KBSClient struct {
	client *resty.Client
	cache  *Cache
	now    func() time.Time
}

func NewKBSClient(cache *Cache) *KBSClient {
	return &KBSClient{
		client: resty.New().SetBaseURL(kbsBaseURL).SetTimeout(requestTimeout),
		cache:  cache,
		now:    time.Now,
	}
}

// FetchSchedule returns the single-day listing for the given channel
// code and YYYYMMDD date (today when empty), extracted from the weekly
// document. Empty on any failure.
func (c *KBSClient) FetchSchedule(channel station.KBSChannel, date string) []KBSProgram {
	if !channel.Valid() {
		log.Warn().Str("channel", string(channel)).Msg("Unsupported KBS channel code")
		return nil
	}

	if date == "" {
		date = timeutil.DateKey(c.now())
	}

	var cached []KBSProgram
	if c.cache.Get(BroadcasterKBS, string(channel), &cached) {
		return cached
	}

	resp, err := c.client.R().
		SetQueryParams(map[string]string{
			"rtype":              "json",
			"local_station_code": "00",
			"channel_code":       string(channel),
		}).
		Get("/mediafactory/v1/schedule/weekly")
	if err != nil {
		log.Warn().Err(err).Str("channel", string(channel)).Msg("KBS schedule request failed")
		return nil
	}
	if !resp.IsSuccess() {
		log.Warn().Int("status", resp.StatusCode()).Str("channel", string(channel)).
			Msg("KBS schedule request rejected")
		return nil
	}

	var week []kbsScheduleDay
	if err := json.Unmarshal(resp.Body(), &week); err != nil {
		log.Warn().Err(err).Str("channel", string(channel)).Msg("Failed to parse KBS schedule")
		return nil
	}

	for _, day := range week {
		if day.Date != date || len(day.Schedules) == 0 {
			continue
		}
		c.cache.Put(BroadcasterKBS, string(channel), day.Schedules)
		return day.Schedules
	}
	return nil
}

// CurrentProgram returns the program airing at ref, or nil. KBS encodes
// boundaries with second granularity; the interval is half-open and the
// first matching document entry wins.
func (c *KBSClient) CurrentProgram(programs []KBSProgram, ref time.Time) *station.CurrentProgram {
	now := timeutil.HHMMSS(ref)
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

func (c *KBSClient) normalize(p KBSProgram) *station.CurrentProgram {
	subtitle := p.Subtitle
	if subtitle == "" {
		subtitle = p.TableTitle
	}
	return &station.CurrentProgram{
		Title:       p.Title,
		Subtitle:    subtitle,
		StartTime:   timeutil.FormatHHMMSS(p.StartTime),
		EndTime:     timeutil.FormatHHMMSS(p.EndTime),
		Players:     p.Actor,
		Producer:    p.Staff,
		ImageURL:    p.ImageWide,
		HomepageURL: p.HomepageURL,
		Description: p.Intention,
		ChannelName: p.ChannelCodeName,
	}
}

// Daily returns the normalized full-day listing for the channel.
func (c *KBSClient) Daily(channel station.KBSChannel, date string) DailySchedule {
	if date == "" {
		date = timeutil.DateKey(c.now())
	}

	daily := DailySchedule{
		ChannelName: channel.Name(),
		DateDisplay: timeutil.FormatDateDisplay(date),
	}

	for _, p := range c.FetchSchedule(channel, date) {
		if p.Title == "" || p.StartTime == "" || p.EndTime == "" {
			continue
		}
		daily.Programs = append(daily.Programs, *c.normalize(p))
	}
	return daily
}
