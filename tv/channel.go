package tv

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/renameio/v2"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"sfr-epg/consts"
)

// Channel is an SFR channel with its derived XMLTV identifier.
type Channel struct {
	SFRID       string `yaml:"sfrId"`
	XMLTVID     string `yaml:"id"`
	DisplayName string `yaml:"name"`
}

var xmltvIDReplacer = strings.NewReplacer("_", "-", "+", "PLUS")

// XMLTVID converts an SFR channel ID to a valid XMLTV channel ID.
func XMLTVID(sfrID string) string {
	return xmltvIDReplacer.Replace(sfrID) + consts.XMLTV_ID_SUFFIX
}

// Catalog is the ordered set of channels announced by a feed, keyed by XMLTV ID.
type Catalog struct {
	channels []Channel
	index    map[string]int
}

// NewCatalog indexes the usable channels of feed. Channels lacking an ID or a
// display-name are skipped. When two SFR IDs map to the same XMLTV ID the first one
// wins and the clash is logged.
func NewCatalog(feed *Feed, logger zerolog.Logger) *Catalog {
	c := &Catalog{index: make(map[string]int)}
	for _, fc := range feed.Channels {
		if fc.ID == "" || fc.DisplayName == nil {
			continue
		}
		id := XMLTVID(fc.ID)
		if i, dup := c.index[id]; dup {
			if c.channels[i].SFRID != fc.ID {
				logger.Warn().
					Str("xmltv_id", id).
					Str("kept", c.channels[i].SFRID).
					Str("ignored", fc.ID).
					Msg("SFR channel IDs collide on the same XMLTV ID")
			}
			continue
		}
		c.index[id] = len(c.channels)
		c.channels = append(c.channels, Channel{
			SFRID:       fc.ID,
			XMLTVID:     id,
			DisplayName: *fc.DisplayName,
		})
	}
	return c
}

// LoadCatalog retrieves all available channels from the feed of today.
func LoadCatalog(ctx context.Context, f Fetcher, today time.Time, logger zerolog.Logger) (*Catalog, error) {
	logger.Debug().Msg("getting available channels")
	feed, err := f.GetPrograms(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("load channel catalog: %w", err)
	}
	c := NewCatalog(feed, logger)
	logger.Debug().Int("channels", c.Len()).Msg("channel catalog loaded")
	return c, nil
}

// Lookup returns the channel with the given XMLTV ID.
func (c *Catalog) Lookup(xmltvID string) (Channel, bool) {
	i, ok := c.index[xmltvID]
	if !ok {
		return Channel{}, false
	}
	return c.channels[i], true
}

// Channels returns the channels in feed order.
func (c *Catalog) Channels() []Channel {
	out := make([]Channel, len(c.channels))
	copy(out, c.channels)
	return out
}

func (c *Catalog) Len() int { return len(c.channels) }

// WriteCatalogYaml encodes the catalog as a YAML list.
func WriteCatalogYaml(w io.Writer, c *Catalog) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c.channels); err != nil {
		return err
	}
	return enc.Close()
}

// SaveCatalogYaml writes the catalog to path, replacing it atomically.
func SaveCatalogYaml(path string, c *Catalog) error {
	pf, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o644))
	if err != nil {
		return fmt.Errorf("create pending catalog file: %w", err)
	}
	defer pf.Cleanup()

	if err := WriteCatalogYaml(pf, c); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}
	if err := pf.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace catalog file: %w", err)
	}
	return nil
}
