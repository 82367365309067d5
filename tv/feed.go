package tv

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"golang.org/x/net/html/charset"
)

// Feed holds the channel and programme elements of one daily SFR feed, in document order.
type Feed struct {
	Channels   []FeedChannel
	Programmes []Programme
}

// FeedChannel is a raw <channel> element. DisplayName is nil when the element is absent.
type FeedChannel struct {
	ID          string
	DisplayName *string
}

// Programme is a raw <programme> element of the SFR feed. Only the first occurrence
// of a repeated child element is kept.
type Programme struct {
	Channel      string
	Start        string
	Stop         string
	ID           string
	Title        *string
	SubTitle     string
	Desc         string
	Category     string
	MetaCategory string
	StarRating   *StarRating
}

type StarRating struct {
	Value string
}

type rawChannel struct {
	ID          string   `xml:"id,attr"`
	DisplayName []string `xml:"display-name"`
}

type rawStarRating struct {
	Value []string `xml:"value"`
}

type rawProgramme struct {
	Channel      string          `xml:"channel,attr"`
	Start        string          `xml:"start,attr"`
	Stop         string          `xml:"stop,attr"`
	ID           string          `xml:"id,attr"`
	Title        []string        `xml:"title"`
	SubTitle     []string        `xml:"sub-title"`
	Desc         []string        `xml:"desc"`
	Category     []string        `xml:"category"`
	MetaCategory []string        `xml:"metacategory"`
	StarRating   []rawStarRating `xml:"star-rating"`
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func firstPtr(values []string) *string {
	if len(values) == 0 {
		return nil
	}
	return &values[0]
}

func (c *FeedChannel) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var raw rawChannel
	if err := d.DecodeElement(&raw, &start); err != nil {
		return err
	}
	*c = FeedChannel{ID: raw.ID, DisplayName: firstPtr(raw.DisplayName)}
	return nil
}

func (p *Programme) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var raw rawProgramme
	if err := d.DecodeElement(&raw, &start); err != nil {
		return err
	}
	*p = Programme{
		Channel:      raw.Channel,
		Start:        raw.Start,
		Stop:         raw.Stop,
		ID:           raw.ID,
		Title:        firstPtr(raw.Title),
		SubTitle:     first(raw.SubTitle),
		Desc:         first(raw.Desc),
		Category:     first(raw.Category),
		MetaCategory: first(raw.MetaCategory),
	}
	if len(raw.StarRating) > 0 {
		p.StarRating = &StarRating{Value: first(raw.StarRating[0].Value)}
	}
	return nil
}

// ParseFeed reads every <channel> and <programme> element of r, at any depth.
func ParseFeed(r io.Reader) (*Feed, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = true
	dec.CharsetReader = charset.NewReaderLabel
	// No entity expansion beyond the XML builtins.
	dec.Entity = make(map[string]string)

	feed := &Feed{}
	root := false
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode feed: %w", err)
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		root = true
		switch se.Name.Local {
		case "channel":
			var ch FeedChannel
			if err := dec.DecodeElement(&ch, &se); err != nil {
				return nil, fmt.Errorf("decode channel: %w", err)
			}
			feed.Channels = append(feed.Channels, ch)
		case "programme":
			var p Programme
			if err := dec.DecodeElement(&p, &se); err != nil {
				return nil, fmt.Errorf("decode programme: %w", err)
			}
			feed.Programmes = append(feed.Programmes, p)
		}
	}
	if !root {
		return nil, errors.New("decode feed: no root element")
	}
	return feed, nil
}
