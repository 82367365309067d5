package epg

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"sfr-epg/consts"
	"sfr-epg/metrics"
	"sfr-epg/tv"
)

// Grabber assembles XMLTV documents from daily SFR feeds. Feeds are fetched one after
// the other; a failed fetch aborts the whole grab.
type Grabber struct {
	Fetcher      tv.Fetcher
	Catalog      *tv.Catalog
	SourceURL    string // source-data-url of the document
	Generator    string
	GeneratorURL string
	FeedLocation *time.Location
	Now          func() time.Time
	Metrics      *metrics.Recorder
	Logger       zerolog.Logger
}

func (g *Grabber) now() time.Time {
	if g.Now != nil {
		return g.Now()
	}
	return time.Now()
}

func (g *Grabber) feedLocation() *time.Location {
	if g.FeedLocation != nil {
		return g.FeedLocation
	}
	return sfrLocation
}

// Generate grabs days days of programmes, starting offset days from today, for the
// channels identified by xmltvIDs.
func (g *Grabber) Generate(ctx context.Context, xmltvIDs []string, days, offset int) (*TV, error) {
	window, clamped := ResolveWindow(g.now(), days, offset, g.feedLocation())
	if clamped {
		g.Logger.Warn().
			Int("max_days", consts.MAX_DAYS).
			Int("days", window.Days).
			Msgf("grabber can only fetch programs up to %d days in the future", consts.MAX_DAYS)
	}
	return g.generate(ctx, xmltvIDs, window)
}

func (g *Grabber) generate(ctx context.Context, xmltvIDs []string, window Window) (*TV, error) {
	res := &TV{
		SourceInfoName:    consts.SOURCE_INFO_NAME,
		SourceInfoURL:     consts.SOURCE_INFO_URL,
		SourceDataURL:     g.SourceURL,
		GeneratorInfoName: g.Generator,
		GeneratorInfoURL:  g.GeneratorURL,
		Programmes:        []Programme{},
	}
	if res.SourceDataURL == "" {
		res.SourceDataURL = consts.SFR_API_URL
	}

	selected := lo.SliceToMap(xmltvIDs, func(id string) (string, struct{}) { return id, struct{}{} })
	var channelIDs []string
	seen := make(map[string]string) // XMLTV ID -> SFR ID
	feedNames := make(map[string]string)

	g.Logger.Debug().
		Time("start", window.Start).
		Time("stop", window.Stop).
		Int("feeds", len(window.FetchDates)).
		Msg("grabbing SFR programs")

	for _, date := range window.FetchDates {
		began := time.Now()
		feed, err := g.Fetcher.GetPrograms(ctx, date)
		if err != nil {
			return nil, err
		}
		g.Metrics.FeedFetched(time.Since(began))

		for _, sp := range feed.Programmes {
			if _, ok := selected[tv.XMLTVID(sp.Channel)]; !ok {
				g.Metrics.Programme(metrics.OutcomeUnselected)
				continue
			}

			prog, err := ProgrammeFromSFR(sp, g.Logger)
			if err != nil {
				g.Logger.Warn().Err(err).
					Str("channel", sp.Channel).
					Str("start", sp.Start).
					Str("id", sp.ID).
					Msg("skipping invalid SFR programme")
				g.Metrics.Programme(metrics.OutcomeInvalid)
				continue
			}

			if !window.Contains(prog.StartTime, prog.StopTime) {
				g.Metrics.Programme(metrics.OutcomeOutside)
				continue
			}

			if _, ok := seen[prog.Channel]; !ok {
				seen[prog.Channel] = sp.Channel
				channelIDs = append(channelIDs, prog.Channel)
			}
			res.Programmes = append(res.Programmes, prog)
			g.Metrics.Programme(metrics.OutcomeKept)
		}

		for _, fc := range feed.Channels {
			if fc.ID != "" && fc.DisplayName != nil {
				feedNames[tv.XMLTVID(fc.ID)] = *fc.DisplayName
			}
		}
	}

	// Keep only channels which have programs actually in the XMLTV result.
	for _, id := range channelIDs {
		res.Channels = append(res.Channels, g.channel(id, seen[id], feedNames))
	}

	g.Metrics.Generated(len(res.Channels), len(res.Programmes))
	g.Logger.Info().
		Int("channels", len(res.Channels)).
		Int("programmes", len(res.Programmes)).
		Msg("XMLTV data generated")
	return res, nil
}

// channel names a retained channel from the catalog, falling back to the fetched
// feeds and finally to the SFR ID.
func (g *Grabber) channel(xmltvID, sfrID string, feedNames map[string]string) Channel {
	if g.Catalog != nil {
		if ch, ok := g.Catalog.Lookup(xmltvID); ok {
			return Channel{ID: xmltvID, DisplayName: ch.DisplayName}
		}
	}
	if name, ok := feedNames[xmltvID]; ok {
		return Channel{ID: xmltvID, DisplayName: name}
	}
	g.Logger.Warn().Str("channel", xmltvID).Msg("channel has no display name, using its SFR ID")
	return Channel{ID: xmltvID, DisplayName: sfrID}
}
