package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"sfr-epg/config"
	"sfr-epg/epg"
	"sfr-epg/logging"
	"sfr-epg/metrics"
	"sfr-epg/tv"
	"sfr-epg/version"
)

func RootApp() *cli.App {
	return &cli.App{
		Name:  version.Program,
		Usage: "get French television listings from SFR STB EPG sources in XMLTV format",
		Description: `Grabs the SFR set-top-box program guide and writes it as XMLTV.

		Run once with --configure to select channels, then run without it to
		grab. Flags can also be set via environment variables, e.g.:

		--config-file => SFR_EPG_CONFIG_FILE=/etc/xmltv/sfr.conf
		--output => SFR_EPG_OUTPUT=/var/lib/xmltv/sfr.xml
		`,
		HideHelpCommand: true,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "description",
				Usage: "print the description for this grabber",
			},
			&cli.BoolFlag{
				Name:  "version",
				Usage: "show the version of this grabber",
			},
			&cli.BoolFlag{
				Name:  "capabilities",
				Usage: "show the capabilities this grabber supports",
			},
			&cli.BoolFlag{
				Name:  "configure",
				Usage: "generate the configuration file by asking the users which channels to grab",
			},
			&cli.BoolFlag{
				Name:  "tui",
				Usage: "use a terminal choice list instead of line prompts with --configure",
			},
			&cli.IntFlag{
				Name:    "days",
				Value:   1,
				Usage:   "grab `DAYS` days of TV data",
				EnvVars: []string{"SFR_EPG_DAYS"},
			},
			&cli.IntFlag{
				Name:    "offset",
				Value:   0,
				Usage:   "grab TV data starting at `OFFSET` days in the future",
				EnvVars: []string{"SFR_EPG_OFFSET"},
			},
			&cli.StringFlag{
				Name:    "output",
				Value:   "-",
				Usage:   "write the XML data to `OUTPUT` instead of the standard output",
				EnvVars: []string{"SFR_EPG_OUTPUT"},
			},
			&cli.StringFlag{
				Name:    "config-file",
				Value:   config.DefaultPath(),
				Usage:   "file name to write/load the configuration to/from",
				EnvVars: []string{"SFR_EPG_CONFIG_FILE"},
			},
			&cli.BoolFlag{
				Name:  "quiet",
				Usage: "only print error-messages on STDERR",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "provide more information on progress to stderr to help in debugging",
			},
			&cli.StringFlag{
				Name:  "catalog-yaml",
				Usage: "write the available SFR channels as YAML to `FILE` and exit",
			},
			&cli.StringFlag{
				Name:    "metrics-textfile",
				Usage:   "write grab metrics for the node_exporter textfile collector to `FILE`",
				EnvVars: []string{"SFR_EPG_METRICS_TEXTFILE"},
			},
			&cli.StringFlag{
				Name:    "api-url",
				Value:   tv.DefaultBaseURL,
				Hidden:  true,
				EnvVars: []string{"SFR_EPG_API_URL"},
			},
		},
		Action: run,
	}
}

// Execute runs the grabber and exits non-zero on failure.
func Execute() {
	if err := RootApp().Run(os.Args); err != nil {
		logger := logging.WithComponent("cmd")
		logger.Error().Err(err).Msg(version.Program + " failed")
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	w := c.App.Writer
	switch {
	case c.Bool("version"):
		fmt.Fprintf(w, "This is %s version %s\n", version.Program, version.Version)
		return nil
	case c.Bool("description"):
		fmt.Fprintln(w, version.Description)
		return nil
	case c.Bool("capabilities"):
		fmt.Fprintln(w, strings.Join(version.Capabilities, "\n"))
		return nil
	}

	if c.Bool("quiet") && c.Bool("debug") {
		return errors.New("--quiet and --debug are mutually exclusive")
	}
	logging.Configure(logging.Config{
		Level:  logging.LevelFor(c.Bool("debug"), c.Bool("quiet")),
		Output: c.App.ErrWriter,
	})
	logger := logging.WithComponent("cmd")
	client := tv.NewClient(c.String("api-url"), nil, logging.WithComponent("tv"))

	configFile := c.String("config-file")
	logger.Info().Str("path", configFile).Msg("using configuration file")

	switch {
	case c.Bool("configure"):
		return configure(c, client, configFile)
	case c.String("catalog-yaml") != "":
		catalog, err := tv.LoadCatalog(c.Context, client, time.Now(), logging.WithComponent("tv"))
		if err != nil {
			return err
		}
		return tv.SaveCatalogYaml(c.String("catalog-yaml"), catalog)
	}

	return grab(c, client, configFile)
}

func configure(c *cli.Context, client *tv.Client, configFile string) error {
	catalog, err := tv.LoadCatalog(c.Context, client, time.Now(), logging.WithComponent("tv"))
	if err != nil {
		return err
	}

	var asker config.Asker = config.NewLineAsker(c.App.Reader, c.App.ErrWriter)
	if c.Bool("tui") {
		asker = config.PromptAsker{}
	}
	selector := &config.Selector{Asker: asker, Out: c.App.ErrWriter}
	ids, err := selector.Select(catalog.Channels())
	if err != nil {
		return err
	}
	if err := config.Write(configFile, ids); err != nil {
		return err
	}
	logger := logging.WithComponent("config")
	logger.Info().Int("channels", len(ids)).Str("path", configFile).Msg("configuration written")
	return nil
}

func grab(c *cli.Context, client *tv.Client, configFile string) error {
	ids, err := config.Read(configFile)
	switch {
	case errors.Is(err, config.ErrNotConfigured):
		return errors.New("you need to configure the grabber by running it with --configure")
	case errors.Is(err, config.ErrNoChannels):
		return fmt.Errorf("configuration file %s is empty, delete and run with --configure", configFile)
	case err != nil:
		return err
	}

	catalog, err := tv.LoadCatalog(c.Context, client, time.Now(), logging.WithComponent("tv"))
	if err != nil {
		return err
	}

	recorder := metrics.New()
	g := &epg.Grabber{
		Fetcher:      client,
		Catalog:      catalog,
		SourceURL:    client.BaseURL(),
		Generator:    version.Program,
		GeneratorURL: version.URL,
		Metrics:      recorder,
		Logger:       logging.WithComponent("epg"),
	}
	doc, err := g.Generate(c.Context, ids, c.Int("days"), c.Int("offset"))
	if err != nil {
		return err
	}

	if output := c.String("output"); output == "" || output == "-" {
		err = epg.WriteXMLTV(c.App.Writer, doc)
	} else {
		err = epg.WriteXMLTVFile(c.Context, output, doc, logging.WithComponent("epg"))
	}
	if err != nil {
		return err
	}

	if path := c.String("metrics-textfile"); path != "" {
		if err := recorder.WriteTextfile(path); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}
