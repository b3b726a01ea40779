// Package config holds the settings shared by every srlims command. Settings
// come from $HOME/.srlims.yaml (or --config), SRLIMS_* environment variables
// and command line flags, in viper's usual order of precedence.
package config

import (
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"github.com/xuri/excelize/v2"

	"github.com/juliandevatbs/SRLIMS/internal/report"
	"github.com/juliandevatbs/SRLIMS/internal/store"
)

const EnvPrefix = "srlims"

type Config struct {
	Database Database `mapstructure:"database"`
	Layout   Layout   `mapstructure:"layout"`
	Publish  Publish  `mapstructure:"publish"`
	Serve    Serve    `mapstructure:"serve"`
}

type Database struct {
	Driver  string        `mapstructure:"driver"`
	DSN     string        `mapstructure:"dsn"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Layout columns may be given as numbers or column letters, as a list or as
// a comma separated string: [2, 3, "Y"] or "B,C,Y".
type Layout struct {
	CustodySheet    string   `mapstructure:"custody_sheet"`
	CustodyStartRow int      `mapstructure:"custody_start_row"`
	CustodyColumns  []int    `mapstructure:"custody_columns"`
	CustodyMaxRows  int      `mapstructure:"custody_max_rows"`
	MatrixSheets    []string `mapstructure:"matrix_sheets"`
	MatrixStartRow  int      `mapstructure:"matrix_start_row"`
	MatrixColumns   []int    `mapstructure:"matrix_columns"`
	MatrixMaxRows   int      `mapstructure:"matrix_max_rows"`
}

type Publish struct {
	URL      string `mapstructure:"url"`
	APIKey   string `mapstructure:"apikey"`
	Insecure bool   `mapstructure:"insecure"`
}

// Serve settings. Workbooks requested over HTTP must be under Root.
type Serve struct {
	Addr string `mapstructure:"addr"`
	Root string `mapstructure:"root"`
}

// Bind sets the defaults and environment lookup on v. Environment variables
// are the key in upper case with dots replaced by underscores, for example
// SRLIMS_DATABASE_DSN.
func Bind(v *viper.Viper) {
	layout := report.DefaultLayout()

	v.SetDefault("database.driver", "sqlserver")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.timeout", "30s")

	v.SetDefault("layout.custody_sheet", layout.CustodySheet)
	v.SetDefault("layout.custody_start_row", layout.CustodyStartRow)
	v.SetDefault("layout.custody_columns", layout.CustodyColumns)
	v.SetDefault("layout.custody_max_rows", layout.CustodyMaxRows)
	v.SetDefault("layout.matrix_sheets", layout.MatrixSheets)
	v.SetDefault("layout.matrix_start_row", layout.MatrixStartRow)
	v.SetDefault("layout.matrix_columns", layout.MatrixColumns)
	v.SetDefault("layout.matrix_max_rows", layout.MatrixMaxRows)

	v.SetDefault("publish.url", "http://localhost:5016/api")
	v.SetDefault("publish.apikey", "")
	v.SetDefault("publish.insecure", false)

	v.SetDefault("serve.addr", "localhost:8080")
	v.SetDefault("serve.root", ".")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load decodes the settings held by v.
func Load(v *viper.Viper) (*Config, error) {
	var c Config

	hook := mapstructure.ComposeDecodeHookFunc(
		columnsHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)

	if err := v.Unmarshal(&c, viper.DecodeHook(hook)); err != nil {
		return nil, errors.Wrap(err, "unable to decode configuration")
	}

	return &c, nil
}

func (c *Config) ReportLayout() report.Layout {
	return report.Layout{
		CustodySheet:    c.Layout.CustodySheet,
		CustodyStartRow: c.Layout.CustodyStartRow,
		CustodyColumns:  c.Layout.CustodyColumns,
		CustodyMaxRows:  c.Layout.CustodyMaxRows,
		MatrixSheets:    c.Layout.MatrixSheets,
		MatrixStartRow:  c.Layout.MatrixStartRow,
		MatrixColumns:   c.Layout.MatrixColumns,
		MatrixMaxRows:   c.Layout.MatrixMaxRows,
	}
}

func (c *Config) StoreConfig() store.Config {
	return store.Config{
		Driver:  c.Database.Driver,
		DSN:     c.Database.DSN,
		Timeout: c.Database.Timeout,
	}
}

// columnsHookFunc decodes column lists written with letters, numbers or both.
func columnsHookFunc() mapstructure.DecodeHookFuncType {
	intSlice := reflect.TypeOf([]int{})

	return func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
		if t != intSlice {
			return data, nil
		}

		var items []interface{}
		switch d := data.(type) {
		case string:
			if strings.TrimSpace(d) == "" {
				return []int{}, nil
			}
			for _, s := range strings.Split(d, ",") {
				items = append(items, s)
			}
		case []interface{}:
			items = d
		case []string:
			for _, s := range d {
				items = append(items, s)
			}
		default:
			return data, nil
		}

		columns := make([]int, 0, len(items))
		for _, item := range items {
			col, err := toColumn(item)
			if err != nil {
				return nil, err
			}
			columns = append(columns, col)
		}

		return columns, nil
	}
}

func toColumn(item interface{}) (int, error) {
	switch v := item.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	case string:
		s := strings.TrimSpace(v)
		if n, err := strconv.Atoi(s); err == nil {
			return n, nil
		}
		n, err := excelize.ColumnNameToNumber(s)
		if err != nil {
			return 0, errors.Wrapf(err, "bad column '%s'", s)
		}
		return n, nil
	default:
		return 0, errors.Errorf("bad column %v", item)
	}
}
