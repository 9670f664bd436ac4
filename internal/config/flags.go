package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagAddr       = flag.String("addr", "", "HTTP listen address")
	flagWeb        = flag.String("web", "", "Directory of the web viewer")
	flagDB         = flag.String("db", "", "Path to the SQLite database")
	flagPages      = flag.Int("pages", 0, "Number of pages")
	flagCamera     = flag.Int("camera", -1, "Camera device ID")
	flagNoGestures = flag.Bool("no-gestures", false, "Disable hand gesture navigation")
	flagNoTray     = flag.Bool("no-tray", false, "Run without the system tray")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagAddr != "" {
		cfg.Server.Addr = *flagAddr
	}
	if *flagWeb != "" {
		cfg.Server.WebDir = *flagWeb
	}
	if *flagDB != "" {
		cfg.Store.Path = *flagDB
	}
	if *flagPages > 0 {
		cfg.Brochure.Pages = *flagPages
	}
	if *flagCamera >= 0 {
		cfg.Gesture.CameraID = *flagCamera
	}
	if *flagNoGestures {
		cfg.Gesture.Enabled = false
	}
	if *flagNoTray {
		cfg.Server.Tray = false
	}
}
