package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	StoreFile   = "file"
	StoreSQLite = "sqlite"
)

type Config struct {
	SaveDirectory     string
	Store             string
	DBPath            string
	PenColor          string
	PenWidth          float64
	Fill              FillMode
	EraserRadius      float64
	EraserInterpolate bool
	GrabMargin        float64
	SaveDebounce      time.Duration
	PNGScale          float64
	LogFile           string
	Confirmations     bool
}

func defaultConfig() *Config {
	return &Config{
		SaveDirectory: "",
		Store:         StoreFile,
		PenColor:      palette[0],
		PenWidth:      1,
		Fill:          FillNone,
		EraserRadius:  1,
		GrabMargin:    1,
		SaveDebounce:  500 * time.Millisecond,
		PNGScale:      8,
		Confirmations: true,
	}
}

// loadConfig reads ~/.sketchpadrc on top of the defaults. A missing or
// unreadable file leaves the defaults in place.
func loadConfig() *Config {
	config := defaultConfig()

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return config
	}

	file, err := os.Open(filepath.Join(homeDir, ".sketchpadrc"))
	if err != nil {
		return config
	}
	defer file.Close()

	config.parse(file, homeDir)
	return config
}

func (c *Config) parse(r io.Reader, homeDir string) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		switch strings.ToLower(key) {
		case "savedirectory", "save_directory", "savedir":
			c.SaveDirectory = expandPath(value, homeDir)
		case "store":
			c.Store = strings.ToLower(value)
		case "db_path", "dbpath":
			c.DBPath = expandPath(value, homeDir)
		case "pen_color", "color":
			c.PenColor = value
		case "pen_width", "width":
			if v, err := strconv.ParseFloat(value, 64); err == nil {
				c.PenWidth = v
			}
		case "fill":
			c.Fill = FillMode(strings.ToLower(value))
		case "eraser_radius":
			if v, err := strconv.ParseFloat(value, 64); err == nil {
				c.EraserRadius = v
			}
		case "eraser_interpolate":
			c.EraserInterpolate = strings.ToLower(value) == "true"
		case "grab_margin":
			if v, err := strconv.ParseFloat(value, 64); err == nil {
				c.GrabMargin = v
			}
		case "save_debounce":
			if d, err := time.ParseDuration(value); err == nil {
				c.SaveDebounce = d
			}
		case "png_scale":
			if v, err := strconv.ParseFloat(value, 64); err == nil {
				c.PNGScale = v
			}
		case "log_file", "logfile":
			c.LogFile = expandPath(value, homeDir)
		case "confirmations", "confirm":
			c.Confirmations = strings.ToLower(value) == "true"
		}
	}
}

func expandPath(value, homeDir string) string {
	if strings.HasPrefix(value, "~") && homeDir != "" {
		value = filepath.Join(homeDir, strings.TrimPrefix(value, "~"))
	}
	if !filepath.IsAbs(value) {
		if absPath, err := filepath.Abs(value); err == nil {
			value = absPath
		}
	}
	return value
}

func (c *Config) Validate() error {
	switch c.Store {
	case StoreFile, StoreSQLite:
	default:
		return fmt.Errorf("unknown store %q (want %s or %s)", c.Store, StoreFile, StoreSQLite)
	}
	if err := c.PenStyle().Validate(); err != nil {
		return fmt.Errorf("pen: %w", err)
	}
	if c.EraserRadius <= 0 {
		return fmt.Errorf("eraser_radius must be positive, got %v", c.EraserRadius)
	}
	if c.GrabMargin <= 0 {
		return fmt.Errorf("grab_margin must be positive, got %v", c.GrabMargin)
	}
	if c.PNGScale <= 0 {
		return fmt.Errorf("png_scale must be positive, got %v", c.PNGScale)
	}
	if c.SaveDebounce < 0 {
		return fmt.Errorf("save_debounce must not be negative, got %v", c.SaveDebounce)
	}
	return nil
}

func (c *Config) PenStyle() Style {
	return Style{Color: c.PenColor, Width: c.PenWidth, Fill: c.Fill}
}

// GetSavePath places filename in the save directory, creating it on demand.
func (c *Config) GetSavePath(filename string) string {
	if c.SaveDirectory == "" {
		return filename
	}
	os.MkdirAll(c.SaveDirectory, 0755)
	return filepath.Join(c.SaveDirectory, filename)
}

// SQLitePath is the database used by the sqlite store.
func (c *Config) SQLitePath() string {
	if c.DBPath != "" {
		return c.DBPath
	}
	return c.GetSavePath("sketchpad.sqlite")
}
