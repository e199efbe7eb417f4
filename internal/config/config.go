package config

import (
	"os"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
)

var Version = "dev"

var (
	BotToken   string
	APIBaseURL string
	AdminKey   string

	StatusPort string
	EnvMode    string

	GatedChannel  string
	AutoCreateKey bool

	UsersFile string
)

const (
	// Inline sends above this go out as links (or a denial for the free tier).
	MaxInlineFileSize = 50 * 1024 * 1024
	// Hard ceiling for link-tier delivery.
	MaxFileSize = 2 * 1024 * 1024 * 1024
	// Animated output has its own, smaller ceiling.
	MaxGIFSize = 100 * 1024 * 1024

	MaxResolveAttempts = 90
	RequestTimeout     = 30 * time.Second
	FileFetchTimeout   = 5 * time.Minute

	RateLimitWindow = 60 * time.Second
	RateLimitMax    = 60
	MaxURLLength    = 2048
)

// Empirical bytes-per-pixel-frame ratio for GIF size projection. The service
// cannot report a size for that transform ahead of time.
const GIFCompressionRatio = 0.066

var VideoOutputFormats = []string{"mp4", "webm", "mkv", "gif"}
var AudioOutputFormats = []string{"mp3", "m4a", "opus"}

// Live capture lengths in seconds. The premium set extends the base set.
var (
	LiveDurations        = []int{60, 120, 300}
	LiveDurationsPremium = []int{60, 120, 300, 600, 1800}
)

var ProvisionedPermissions = []string{
	"get_video", "get_audio", "get_info", "get_live_video", "get_live_audio",
}

func Load() {
	BotToken = os.Getenv("BOT_TOKEN")
	if BotToken == "" {
		log.Fatal("BOT_TOKEN is required")
	}
	APIBaseURL = envOrDefault("API_BASE_URL", "http://localhost:8000")
	AdminKey = os.Getenv("ADMIN_API_KEY")
	if AdminKey == "" {
		log.Warn("ADMIN_API_KEY not set, key provisioning and admin panel disabled")
	}

	StatusPort = envOrDefault("STATUS_PORT", "3001")
	EnvMode = envOrDefault("ENV_MODE", "development")

	GatedChannel = os.Getenv("GATED_CHANNEL")
	AutoCreateKey = parseBool(envOrDefault("AUTO_CREATE_KEY", "true"))

	UsersFile = envOrDefault("USERS_FILE", "users.json")
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBool(v string) bool {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false
	}
	return b
}

func Contains(slice []string, val string) bool {
	for _, s := range slice {
		if s == val {
			return true
		}
	}
	return false
}
