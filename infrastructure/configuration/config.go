package configuration

import (
	"fmt"
	"os"
	"strconv"

	"video-bot/infrastructure/logger"

	"github.com/spf13/viper"
)

type Config struct {
	App         App         `json:"app"`
	Database    Database    `json:"database"`
	RedisClient RedisClient `json:"redisClient"`
	Reddit      Reddit      `json:"reddit"`
	Hub         Hub         `json:"hub"`
	Logger      Logger      `json:"logger"`
}

type App struct {
	Port      int    `json:"port"`
	SecretKey string `json:"secretKey"`
	// FormPassword gates the operator authorize form.
	FormPassword string `json:"formPassword"`
}

type Database struct {
	Psql Db `json:"psql"`
}

type Db struct {
	Name     string `json:"name"`
	Host     string `json:"host"`
	Port     string `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
}

type RedisClient struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Reddit holds the Reddit API surface and the single subreddit this instance
// posts to. Client credentials come from the environment, never the file.
type Reddit struct {
	AuthorizeURL       string `json:"authorizeUrl"`
	AccessTokenURL     string `json:"accessTokenUrl"`
	SubmitURL          string `json:"submitUrl"`
	StickyURL          string `json:"stickyUrl"`
	UserSubmissionsURL string `json:"userSubmissionsUrl"`
	UserAgent          string `json:"userAgent"`
	Subreddit          string `json:"subreddit"`
	FlairID            string `json:"flairId"`
	RedirectURL        string `json:"redirectUrl"`
	ClientID           string `json:"-"`
	ClientSecret       string `json:"-"`
}

// Hub holds the PubSubHubbub endpoint and the one channel topic this instance
// subscribes to. The HMAC secret comes from the environment.
type Hub struct {
	URL         string `json:"url"`
	Topic       string `json:"topic"`
	CallbackURL string `json:"callbackUrl"`
	Secret      string `json:"-"`
}

type Logger struct {
	Format string `json:"format"`
}

var C Config

func init() {
	Reload()
}

// Reload re-reads the config file and environment. Call it again after
// LoadEnvFromFile so values from config.env/.env are picked up.
func Reload() {
	LoadConfig()
	initApp(&C)
	initSecrets(&C)
}

func LoadConfig() {
	name := getConfig()
	viper.SetConfigName(name)
	viper.SetConfigType("json")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../")
	viper.AddConfigPath("../../")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logger.GetLogger().Warn("Config file not found")
		} else {
			logger.GetLogger().WithField("error", err).Error("Error reading config file")
		}
	}

	logger.GetLogger().WithField("config", name).Info("Config set up successfully")
	if err := viper.Unmarshal(&C); err != nil {
		logger.GetLogger().WithField("error", err).Error("Viper unable to decode into struct")
	}
}

func getConfig() string {
	name := "config"
	env := os.Getenv("ENV")
	if env != "" {
		name = fmt.Sprintf("%s-%s", name, env)
	}
	return name
}

func initApp(C *Config) {
	// Port resolution order (env overrides config): APP_PORT -> PORT -> config -> default 8080
	if v := os.Getenv("APP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	} else if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	}
	if C.App.Port == 0 {
		C.App.Port = 8080
	}
	if v := os.Getenv("SECRET_KEY"); v != "" {
		C.App.SecretKey = v
	}
	if v := os.Getenv("FORM_PASSWORD"); v != "" {
		C.App.FormPassword = v
	}
	if C.App.SecretKey == "" {
		logger.GetLogger().Warn("App.SecretKey not set; operator authentication will fail. Provide SECRET_KEY via environment.")
	}
}

func initSecrets(C *Config) {
	if C.Database.Psql.Name == "" {
		C.Database.Psql.Name = os.Getenv("DB_NAME")
	}
	if C.Database.Psql.Host == "" {
		C.Database.Psql.Host = os.Getenv("DB_HOST")
	}
	if C.Database.Psql.Port == "" {
		C.Database.Psql.Port = os.Getenv("DB_PORT")
	}
	if C.Database.Psql.User == "" {
		C.Database.Psql.User = os.Getenv("DB_USER")
	}
	if C.Database.Psql.Password == "" {
		C.Database.Psql.Password = os.Getenv("DB_PASSWORD")
	}

	C.Reddit.ClientID = os.Getenv("REDDIT_CLIENT_ID")
	C.Reddit.ClientSecret = os.Getenv("REDDIT_SECRET")
	C.Hub.Secret = os.Getenv("HMAC_SECRET")

	// Reddit endpoint defaults; overridable per environment for tests/staging.
	if C.Reddit.AuthorizeURL == "" {
		C.Reddit.AuthorizeURL = "https://www.reddit.com/api/v1/authorize"
	}
	if C.Reddit.AccessTokenURL == "" {
		C.Reddit.AccessTokenURL = "https://www.reddit.com/api/v1/access_token"
	}
	if C.Reddit.SubmitURL == "" {
		C.Reddit.SubmitURL = "https://oauth.reddit.com/api/submit"
	}
	if C.Reddit.StickyURL == "" {
		C.Reddit.StickyURL = "https://oauth.reddit.com/api/set_subreddit_sticky"
	}
	if C.Hub.URL == "" {
		C.Hub.URL = "https://pubsubhubbub.appspot.com/subscribe"
	}
}
