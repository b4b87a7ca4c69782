package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Geo    GeoConfig    `yaml:"geo" mapstructure:"geo"`
	Schema SchemaConfig `yaml:"schema" mapstructure:"schema"`
	Output OutputConfig `yaml:"output" mapstructure:"output"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// GeoConfig configures boundary-file handling.
type GeoConfig struct {
	// BoundaryFile is used when the process command is given no explicit
	// boundary path.
	BoundaryFile string `yaml:"boundary_file" mapstructure:"boundary_file"`
	// DistrictField and DivisionField name the feature properties that carry
	// the electoral district id and the polling division id.
	DistrictField string `yaml:"district_field" mapstructure:"district_field"`
	DivisionField string `yaml:"division_field" mapstructure:"division_field"`
	// SourceCRS identifies the coordinate system of the boundary file,
	// e.g. "EPSG:3347". Output is always WGS84 lon/lat.
	SourceCRS string `yaml:"source_crs" mapstructure:"source_crs"`
}

// SchemaConfig configures results-table column detection.
type SchemaConfig struct {
	// ExtraPatterns adds label fragments for a logical field on top of the
	// built-in English/French tables, keyed by field name
	// (e.g. district_number, pd_name, total_votes).
	ExtraPatterns map[string][]string `yaml:"extra_patterns" mapstructure:"extra_patterns"`
	// XLSXSheet selects the worksheet when the results file is an XLSX
	// workbook (0-based).
	XLSXSheet int `yaml:"xlsx_sheet" mapstructure:"xlsx_sheet"`
}

// OutputConfig configures the written GeoJSON artifacts.
type OutputConfig struct {
	// Indent pretty-prints the output files when true.
	Indent bool `yaml:"indent" mapstructure:"indent"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("POLLMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("geo.boundary_file", "polling_divisions.geojson")
	v.SetDefault("geo.district_field", "FED_NUM")
	v.SetDefault("geo.division_field", "PD_NUM")
	v.SetDefault("geo.source_crs", "EPSG:3347")
	v.SetDefault("schema.xlsx_sheet", 0)
	v.SetDefault("output.indent", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
