// Package epg turns SFR feeds into XMLTV documents.
package epg

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"time"

	"github.com/google/renameio/v2"
	"github.com/rs/zerolog"
)

type TV struct {
	XMLName           xml.Name    `xml:"tv"`
	SourceInfoName    string      `xml:"source-info-name,attr"`
	SourceInfoURL     string      `xml:"source-info-url,attr"`
	SourceDataURL     string      `xml:"source-data-url,attr"`
	GeneratorInfoName string      `xml:"generator-info-name,attr,omitempty"`
	GeneratorInfoURL  string      `xml:"generator-info-url,attr,omitempty"`
	Channels          []Channel   `xml:"channel"`
	Programmes        []Programme `xml:"programme"`
}

type Channel struct {
	ID          string `xml:"id,attr"`
	DisplayName string `xml:"display-name"`
}

type Programme struct {
	Channel    string      `xml:"channel,attr"`
	Start      string      `xml:"start,attr"`
	Stop       string      `xml:"stop,attr"`
	Title      Text        `xml:"title"`
	SubTitle   *Text       `xml:"sub-title,omitempty"`
	Desc       *Text       `xml:"desc,omitempty"`
	Categories []Text      `xml:"category"`
	URL        string      `xml:"url,omitempty"`
	StarRating *StarRating `xml:"star-rating,omitempty"`

	StartTime time.Time `xml:"-"`
	StopTime  time.Time `xml:"-"`
}

// Text is an XMLTV text node with an optional language.
type Text struct {
	Lang  string `xml:"lang,attr,omitempty"`
	Value string `xml:",chardata"`
}

type StarRating struct {
	System string `xml:"system,attr,omitempty"`
	Value  string `xml:"value"`
}

// WriteXMLTV serializes tv as indented UTF-8 XML with an XML declaration.
func WriteXMLTV(w io.Writer, tv *TV) error {
	data, err := xml.MarshalIndent(tv, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal XMLTV: %w", err)
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	_, err = io.WriteString(w, "\n")
	return err
}

// WriteXMLTVFile writes tv to path, replacing it atomically.
func WriteXMLTVFile(ctx context.Context, path string, tv *TV, logger zerolog.Logger) error {
	logger.Debug().Str("path", path).Msg("writing XMLTV programs to file")

	pendingFile, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o644))
	if err != nil {
		return fmt.Errorf("create pending XMLTV file: %w", err)
	}
	defer func() {
		if err := pendingFile.Cleanup(); err != nil {
			logger.Debug().Err(err).Msg("cleanup pending XMLTV file")
		}
	}()

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := WriteXMLTV(pendingFile, tv); err != nil {
		return fmt.Errorf("write XMLTV data: %w", err)
	}
	if err := pendingFile.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace XMLTV file: %w", err)
	}
	return nil
}
