package config

const (
	defaultDataDir       = "~/.local/share/shortcast"
	defaultVideosDir     = "~/.local/share/shortcast/videos"
	defaultProfileDir    = "~/.local/share/shortcast/chrome_profile"
	defaultScreenshotDir = "~/.local/share/shortcast/screenshots"
	defaultLogDir        = "~/.local/share/shortcast/logs"

	defaultUploadURL      = "https://www.tiktok.com/upload?lang=en"
	defaultLoginURLMarker = "login"

	defaultNavigateSettleSeconds = 5
	defaultFileInputTimeout      = 10
	defaultIngestWaitSeconds     = 30
	defaultConfirmWaitSeconds    = 10
	defaultLoginGraceSeconds     = 60

	defaultDailyTarget            = 10
	defaultStartHour              = 10
	defaultReplenishIntervalHours = 6

	defaultGeneratorCommand        = "shortcast-render"
	defaultGeneratorTimeoutSeconds = 600

	defaultNotifyRequestTimeout = 10

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// defaultPostButtonLabels covers the upload page's submit control in the two
// UI languages the account may be served.
func defaultPostButtonLabels() []string {
	return []string{"Post", "نشر"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:       defaultDataDir,
			VideosDir:     defaultVideosDir,
			ProfileDir:    defaultProfileDir,
			ScreenshotDir: defaultScreenshotDir,
			LogDir:        defaultLogDir,
		},
		Platform: Platform{
			UploadURL:             defaultUploadURL,
			LoginURLMarker:        defaultLoginURLMarker,
			PostButtonLabels:      defaultPostButtonLabels(),
			NavigateSettleSeconds: defaultNavigateSettleSeconds,
			FileInputTimeout:      defaultFileInputTimeout,
			IngestWaitSeconds:     defaultIngestWaitSeconds,
			ConfirmWaitSeconds:    defaultConfirmWaitSeconds,
			LoginGraceSeconds:     defaultLoginGraceSeconds,
		},
		Schedule: Schedule{
			DailyTarget:            defaultDailyTarget,
			StartHour:              defaultStartHour,
			DispatchMinutes:        []int{0, 30},
			ReplenishIntervalHours: defaultReplenishIntervalHours,
		},
		Generator: Generator{
			Command:        defaultGeneratorCommand,
			TimeoutSeconds: defaultGeneratorTimeoutSeconds,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
			Login:          true,
			Uploads:        true,
			Replenishment:  true,
			Errors:         true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
