// Package resolver turns a station descriptor into a playable stream
// URL. Each broadcaster publishes its live stream address differently,
// so resolution dispatches on the station type.
package resolver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"

	"github.com/qwer999/radio/internal/station"
)

// DefaultRelayURL is the relay used for the MBC path. MBC's stream
// endpoint rejects requests from unexpected origins, so the request is
// routed through a relay that forwards the target and returns the
// upstream body verbatim.
const DefaultRelayURL = "https://broken-field-5aad.qwer999.workers.dev/"

const requestTimeout = 15 * time.Second

// ErrStreamUnavailable is returned whenever a stream URL could not be
// retrieved, regardless of the underlying transport or parse failure.
var ErrStreamUnavailable = errors.New("스트림 URL을 가져오지 못했습니다")

// Hint is the lightweight now-playing summary some live endpoints ship
// alongside the stream URL. It is independent of the richer schedule
// data and may be present even when no schedule was fetched.
type Hint struct {
	Title string
	Host  string
	Time  string
}

// Result is the outcome of a resolution. On failure the URL is empty
// and NowPlaying is nil; callers get the same shape either way.
type Result struct {
	URL        string
	NowPlaying *Hint
}

// Resolver fetches live stream URLs. The zero value is not usable;
// construct with New.
type Resolver struct {
	client   *resty.Client
	relayURL string
}

// New creates a Resolver. relayURL is the MBC relay base; pass an empty
// string to use the default.
func New(relayURL string) *Resolver {
	if relayURL == "" {
		relayURL = DefaultRelayURL
	}
	return &Resolver{
		client:   resty.New().SetTimeout(requestTimeout),
		relayURL: relayURL,
	}
}

type kbsLiveResponse struct {
	ChannelItems []struct {
		ServiceURL string `json:"service_url"`
	} `json:"channel_item"`
	ChannelMaster *struct {
		PpsKindLabel string `json:"pps_kind_label"`
		Host         string `json:"host"`
		Time         string `json:"time"`
	} `json:"channelMaster"`
}

// Resolve determines the live audio URL for the given station. It
// never panics; on failure it returns an empty Result together with
// ErrStreamUnavailable (wrapped with the cause).
func (r *Resolver) Resolve(st station.Station) (Result, error) {
	switch st.Type {
	case station.TypeStatic:
		return Result{URL: st.API}, nil
	case station.TypeKBS:
		return r.resolveKBS(st)
	case station.TypeMBC:
		return r.resolveMBC(st)
	case station.TypeSBS:
		return r.resolveText(st, st.API)
	default:
		return Result{}, fmt.Errorf("%w: 알 수 없는 방송국 유형 %q", ErrStreamUnavailable, st.Type)
	}
}

func (r *Resolver) resolveKBS(st station.Station) (Result, error) {
	resp, err := r.client.R().Get(st.API)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrStreamUnavailable, err)
	}
	if resp.IsError() {
		return Result{}, fmt.Errorf("%w: 상태 코드 %d", ErrStreamUnavailable, resp.StatusCode())
	}

	var live kbsLiveResponse
	if err := json.Unmarshal(resp.Body(), &live); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrStreamUnavailable, err)
	}

	var result Result
	if len(live.ChannelItems) > 0 {
		result.URL = live.ChannelItems[0].ServiceURL
	}
	if live.ChannelMaster != nil {
		result.NowPlaying = &Hint{
			Title: live.ChannelMaster.PpsKindLabel,
			Host:  live.ChannelMaster.Host,
			Time:  live.ChannelMaster.Time,
		}
	}
	if result.URL == "" {
		log.Debug().Str("id", st.ID).Msg("KBS live response carried no stream URL")
	}
	return result, nil
}

// resolveMBC routes the request through the relay. The relay forwards
// the target passed in the url query parameter and returns the
// upstream body, which for this endpoint is the stream URL as text.
func (r *Resolver) resolveMBC(st station.Station) (Result, error) {
	res, err := r.resolveText(st, r.relayURL+"?url="+url.QueryEscape(st.API))
	if err != nil {
		return Result{}, err
	}
	return res, nil
}

func (r *Resolver) resolveText(st station.Station, target string) (Result, error) {
	resp, err := r.client.R().Get(target)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrStreamUnavailable, err)
	}
	if resp.IsError() {
		return Result{}, fmt.Errorf("%w: 상태 코드 %d", ErrStreamUnavailable, resp.StatusCode())
	}

	streamURL := strings.TrimSpace(string(resp.Body()))
	if streamURL == "" {
		log.Debug().Str("id", st.ID).Msg("Empty stream URL in response body")
	}
	return Result{URL: streamURL}, nil
}
