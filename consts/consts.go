package consts

import "time"

const (
	SFR_API_URL = "http://data.stb.neuf.fr/epg/data/xmltv"
	// Device signature of the neufbox STB; the feed refuses other agents.
	UA = "Mozilla/4.0 (compatible; MSIE 5.01; Windows 98; Linux 2.4.32-tango2) " +
		"[Netgem; 4.7.13; i-Player; netbox; neuftelecom]; neuftelecom;"

	TIME_FORMAT = "20060102150405 -0700"
	DATE_FORMAT = "20060102"

	SFR_TIMEZONE   = "Europe/Paris"
	SFR_START_HOUR = 5
	MAX_DAYS       = 14

	XMLTV_ID_SUFFIX = ".tv.sfr.fr"
	PROGRAM_URL     = "http://tv.sfr.fr/prog"

	SOURCE_INFO_NAME = "SFR"
	SOURCE_INFO_URL  = "http://tv.sfr.fr/epg"
	RATING_SYSTEM    = "SFR"
	LANG             = "fr"

	HTTP_TIMEOUT = 60 * time.Second
	// Upper bound for one decompressed daily feed.
	MAX_FEED_SIZE = 256 << 20
)
