package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Host        string   `yaml:"host"`
		Port        int      `yaml:"port"`
		Addr        string   `yaml:"-"`            // 不从配置文件读取，而是在加载后计算
		CORSOrigins []string `yaml:"cors_origins"` // 允许跨域访问的前端地址
	} `yaml:"server"`
	RateLimit struct {
		Requests  int `yaml:"requests"`   // 每个IP在窗口期内允许的请求数
		WindowSec int `yaml:"window_sec"` // 窗口期,单位:秒
	} `yaml:"rate_limit"`
	ExternalAPI struct {
		FeedbackPushURL string `yaml:"feedback_push_url"`
		APIKey          string `yaml:"api_key"`
		TimeoutSec      int    `yaml:"timeout_sec"`
	} `yaml:"external_api"`
	Places struct {
		BaseURL    string `yaml:"base_url"`
		APIKey     string `yaml:"api_key"`
		ResultCap  int    `yaml:"result_cap"`  // 附近餐厅最大返回数量
		TimeoutSec int    `yaml:"timeout_sec"` // 请求超时时间,单位:秒
	} `yaml:"places"`
	LLM struct {
		BaseURL    string `yaml:"base_url"`
		APIKey     string `yaml:"api_key"`
		Model      string `yaml:"model"`
		TimeoutSec int    `yaml:"timeout_sec"`
	} `yaml:"llm"`
	Log struct {
		Level    string `yaml:"level"`
		Format   string `yaml:"format"`
		Output   string `yaml:"output"`
		FilePath string `yaml:"file_path"`
	} `yaml:"log"`
	Store struct {
		Backend string `yaml:"backend"` // csv / mysql
		CSVPath string `yaml:"csv_path"`
	} `yaml:"store"`

	DB struct {
		Host            string `yaml:"host"`
		Port            int    `yaml:"port"`
		Username        string `yaml:"username"`
		Password        string `yaml:"password"`
		Database        string `yaml:"database"`
		Charset         string `yaml:"charset"`
		ParseTime       bool   `yaml:"parse_time"`
		DSN             string `yaml:"-"`                 // 不从配置文件读取，而是在加载后计算
		MaxOpenConns    int    `yaml:"max_open_conns"`    // 最大打开连接数
		MaxIdleConns    int    `yaml:"max_idle_conns"`    // 最大空闲连接数
		ConnMaxLifetime int    `yaml:"conn_max_lifetime"` // 连接最大生命周期（分钟）
	} `yaml:"database"`
	Recommend struct {
		TopN        int     `yaml:"top_n"`         // 默认推荐数量
		OpenNowOnly bool    `yaml:"open_now_only"` // 是否过滤当前未营业的餐厅
		FallbackLat float64 `yaml:"fallback_lat"`  // 定位失败时使用的纬度
		FallbackLon float64 `yaml:"fallback_lon"`  // 定位失败时使用的经度
		RadiusValue float64 `yaml:"radius_value"`  // 默认搜索半径
		RadiusUnit  string  `yaml:"radius_unit"`   // miles / kilometers
	} `yaml:"recommend"`
	Location struct {
		TimeoutSec int `yaml:"timeout_sec"` // 定位最长等待时间
	} `yaml:"location"`
	Breaker struct {
		MaxRequests      uint32  `yaml:"max_requests"`      // 半开状态允许的请求数
		IntervalSec      int     `yaml:"interval_sec"`      // 关闭状态计数重置周期
		TimeoutSec       int     `yaml:"timeout_sec"`       // 打开状态持续时间
		MinRequests      uint32  `yaml:"min_requests"`      // 触发熔断的最小请求数
		FailureThreshold float64 `yaml:"failure_threshold"` // 失败率阈值
	} `yaml:"breaker"`
}

func Load() *Config {
	// 首先尝试加载.env文件中的环境变量
	_ = godotenv.Load() // 忽略错误，如果.env文件不存在，继续使用系统环境变量

	return LoadFile("config.yaml")
}

// LoadFile 从指定路径加载配置，文件不存在或解析失败时退回环境变量
func LoadFile(path string) *Config {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		// 如果config.yaml不存在，则完全从环境变量加载配置
		return loadFromEnv()
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Printf("Error loading %s: %v, falling back to environment variables", path, err)
		return loadFromEnv()
	}
	log.Printf("Loading configuration from %s", path)

	overrideFromEnv(&cfg)
	applyDefaults(&cfg)
	buildDSN(&cfg)
	return &cfg
}

func loadFromEnv() *Config {
	var cfg Config

	if port := os.Getenv("SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}
	cfg.Store.Backend = getenv("STORE_BACKEND", "")
	cfg.Store.CSVPath = getenv("STORE_CSV_PATH", "")
	cfg.LLM.BaseURL = getenv("LLM_BASE_URL", "")
	cfg.LLM.Model = getenv("LLM_MODEL", "")
	cfg.ExternalAPI.FeedbackPushURL = getenv("FEEDBACK_PUSH_URL", "")

	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		cfg.DB.DSN = dsn
	}

	overrideFromEnv(&cfg)
	applyDefaults(&cfg)
	buildDSN(&cfg)

	log.Println("配置从环境变量加载，部分配置可能缺失")
	return &cfg
}

// overrideFromEnv 从环境变量中加载敏感信息
func overrideFromEnv(cfg *Config) {
	if envUsername := os.Getenv("DATABASE_USERNAME"); envUsername != "" {
		cfg.DB.Username = envUsername
	}
	if envPassword := os.Getenv("DATABASE_PASSWORD"); envPassword != "" {
		cfg.DB.Password = envPassword
	}
	if apiKey := os.Getenv("PLACES_API_KEY"); apiKey != "" {
		cfg.Places.APIKey = apiKey
	}
	if apiKey := os.Getenv("LLM_API_KEY"); apiKey != "" {
		cfg.LLM.APIKey = apiKey
	}
	if apiKey := os.Getenv("EXTERNAL_API_KEY"); apiKey != "" {
		cfg.ExternalAPI.APIKey = apiKey
	}
}

// applyDefaults 为未配置的字段设置默认值
func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	cfg.Server.Addr = fmt.Sprintf(":%d", cfg.Server.Port)
	if len(cfg.Server.CORSOrigins) == 0 {
		cfg.Server.CORSOrigins = []string{"*"}
	}
	if cfg.RateLimit.Requests <= 0 {
		cfg.RateLimit.Requests = 30
	}
	if cfg.RateLimit.WindowSec <= 0 {
		cfg.RateLimit.WindowSec = 60
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = "csv"
	}
	if cfg.Store.CSVPath == "" {
		cfg.Store.CSVPath = "user_profile.csv"
	}
	if cfg.Places.BaseURL == "" {
		cfg.Places.BaseURL = "https://maps.googleapis.com/maps/api/place"
	}
	if cfg.Places.ResultCap <= 0 {
		cfg.Places.ResultCap = 20
	}
	if cfg.Places.TimeoutSec <= 0 {
		cfg.Places.TimeoutSec = 10
	}
	if cfg.LLM.BaseURL == "" {
		cfg.LLM.BaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = "gemini-2.0-flash"
	}
	if cfg.LLM.TimeoutSec <= 0 {
		cfg.LLM.TimeoutSec = 30
	}
	if cfg.ExternalAPI.TimeoutSec <= 0 {
		cfg.ExternalAPI.TimeoutSec = 10
	}
	if cfg.Recommend.TopN <= 0 {
		cfg.Recommend.TopN = 3
	}
	if cfg.Recommend.FallbackLat == 0 && cfg.Recommend.FallbackLon == 0 {
		// 默认洛杉矶市中心
		cfg.Recommend.FallbackLat = 34.052235
		cfg.Recommend.FallbackLon = -118.243683
	}
	if cfg.Recommend.RadiusValue <= 0 {
		cfg.Recommend.RadiusValue = 2
	}
	if cfg.Recommend.RadiusUnit == "" {
		cfg.Recommend.RadiusUnit = "miles"
	}
	if cfg.Location.TimeoutSec <= 0 {
		cfg.Location.TimeoutSec = 10
	}
	if cfg.Breaker.MaxRequests == 0 {
		cfg.Breaker.MaxRequests = 3
	}
	if cfg.Breaker.IntervalSec <= 0 {
		cfg.Breaker.IntervalSec = 60
	}
	if cfg.Breaker.TimeoutSec <= 0 {
		cfg.Breaker.TimeoutSec = 120
	}
	if cfg.Breaker.MinRequests == 0 {
		cfg.Breaker.MinRequests = 10
	}
	if cfg.Breaker.FailureThreshold <= 0 {
		cfg.Breaker.FailureThreshold = 0.6
	}
}

// buildDSN 计算 DB.DSN 字段
func buildDSN(cfg *Config) {
	if cfg.DB.DSN != "" || cfg.DB.Host == "" {
		return
	}
	if cfg.DB.Charset == "" {
		cfg.DB.Charset = "utf8mb4"
	}
	parseTime := ""
	if cfg.DB.ParseTime {
		parseTime = "&parseTime=true"
	}
	cfg.DB.DSN = fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s%s",
		cfg.DB.Username,
		cfg.DB.Password,
		cfg.DB.Host,
		cfg.DB.Port,
		cfg.DB.Database,
		cfg.DB.Charset,
		parseTime)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// Defaults 返回只包含默认值的配置
func Defaults() *Config {
	var cfg Config
	applyDefaults(&cfg)
	return &cfg
}
