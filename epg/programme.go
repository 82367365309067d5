package epg

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/text/unicode/norm"

	"sfr-epg/consts"
	"sfr-epg/tv"
)

var (
	// ErrMissingTitle marks a feed programme without a usable title.
	ErrMissingTitle = errors.New("programme has no title")
	// ErrBadTimestamp marks a feed programme whose start or stop cannot be parsed.
	ErrBadTimestamp = errors.New("programme has an invalid timestamp")
)

func clean(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// ProgrammeFromSFR converts an SFR feed programme to an XMLTV programme. Unknown
// categories are logged on logger and otherwise ignored.
func ProgrammeFromSFR(p tv.Programme, logger zerolog.Logger) (Programme, error) {
	start, err := time.Parse(consts.TIME_FORMAT, p.Start)
	if err != nil {
		return Programme{}, fmt.Errorf("%w: start %q", ErrBadTimestamp, p.Start)
	}
	stop, err := time.Parse(consts.TIME_FORMAT, p.Stop)
	if err != nil {
		return Programme{}, fmt.Errorf("%w: stop %q", ErrBadTimestamp, p.Stop)
	}
	if p.Title == nil || clean(*p.Title) == "" {
		return Programme{}, ErrMissingTitle
	}

	prog := Programme{
		Channel:   tv.XMLTVID(p.Channel),
		Start:     p.Start,
		Stop:      p.Stop,
		Title:     Text{Value: clean(*p.Title)},
		StartTime: start,
		StopTime:  stop,
	}

	if subTitle := clean(p.SubTitle); subTitle != "" {
		prog.SubTitle = &Text{Value: subTitle}
	}
	if desc := clean(p.Desc); desc != "" {
		prog.Desc = &Text{Lang: consts.LANG, Value: desc}
	}

	if category := clean(p.Category); category != "" {
		etsi, ok := ETSICategory(category)
		if !ok {
			logger.Warn().Str("category", category).Msg("SFR category has no defined ETSI equivalent")
		}
		if etsi != "" {
			prog.Categories = append(prog.Categories, Text{Value: etsi})
		}
		// Keep the original category in French.
		prog.Categories = append(prog.Categories, Text{Lang: consts.LANG, Value: category})
		if meta := clean(p.MetaCategory); meta != "" && meta != category {
			prog.Categories = append(prog.Categories, Text{Lang: consts.LANG, Value: meta})
		}
	}

	if id := strings.TrimSpace(p.ID); id != "" {
		prog.URL = fmt.Sprintf("%s/%s-%s", consts.PROGRAM_URL, *p.Title, id)
	}

	if p.StarRating != nil {
		if value := strings.TrimSpace(p.StarRating.Value); value != "" {
			prog.StarRating = &StarRating{System: consts.RATING_SYSTEM, Value: value}
		}
	}

	return prog, nil
}
