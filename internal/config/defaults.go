package config

// Organize modes.
const (
	ModeMove = "move"
	ModeCopy = "copy"
)

const (
	defaultConfigPath        = "~/.config/photosort/config.toml"
	defaultLogDir            = "~/.local/share/photosort/logs"
	defaultCachePrecision    = 4
	defaultLocationIQBaseURL = "https://us1.locationiq.com"
	defaultNominatimBaseURL  = "https://nominatim.openstreetmap.org"
	defaultUserAgent         = "photo-organizer/1.0"
	defaultMinIntervalMillis = 1000
	defaultTimeoutSeconds    = 10
	defaultClusterMiles      = 25.0
	defaultFilenamePattern   = "{date}_{original_name}{ext}"
	defaultMinFreeGiB        = 1
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// DefaultMajorCities lists the US cities classified at city granularity.
var DefaultMajorCities = []string{
	"New York", "Los Angeles", "Chicago", "Houston", "Phoenix",
	"Philadelphia", "San Antonio", "San Diego", "Dallas", "San Francisco",
	"Seattle", "Boston", "Miami", "Atlanta", "Denver",
	"Las Vegas", "Portland", "Austin", "Nashville", "Washington",
}

// DefaultNationalParks lists the parks classified at park granularity.
var DefaultNationalParks = []string{
	"Yosemite", "Yellowstone", "Grand Canyon", "Zion", "Rocky Mountain",
	"Acadia", "Grand Teton", "Olympic", "Glacier", "Bryce Canyon",
	"Arches", "Joshua Tree", "Great Smoky Mountains", "Shenandoah", "Canyonlands",
	"Mount Rainier", "Sequoia", "Kings Canyon", "Death Valley", "Badlands",
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			CachePath: defaultCachePath(),
			LogDir:    defaultLogDir,
		},
		Geocoding: Geocoding{
			CacheEnabled:      true,
			CachePrecision:    defaultCachePrecision,
			LocationIQBaseURL: defaultLocationIQBaseURL,
			NominatimEnabled:  true,
			NominatimBaseURL:  defaultNominatimBaseURL,
			UserAgent:         defaultUserAgent,
			MinIntervalMillis: defaultMinIntervalMillis,
			TimeoutSeconds:    defaultTimeoutSeconds,
		},
		Location: Location{
			MajorCities:             append([]string(nil), DefaultMajorCities...),
			NationalParks:           append([]string(nil), DefaultNationalParks...),
			ClusteringDistanceMiles: defaultClusterMiles,
		},
		Organize: Organize{
			Mode:            ModeMove,
			Verify:          true,
			FilenamePattern: defaultFilenamePattern,
			Recursive:       true,
			MinFreeGiB:      defaultMinFreeGiB,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
