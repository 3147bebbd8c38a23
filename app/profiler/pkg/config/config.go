package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config 项目配置结构体
type Config struct {
	LLM         LLMConfig         `yaml:"llm"`
	Image       ImageConfig       `yaml:"image"`
	Breaker     BreakerConfig     `yaml:"breaker"`
	Log         LogConfig         `yaml:"log"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	DB          DBConfig          `yaml:"db"`
	Dataset     DatasetConfig     `yaml:"dataset"`
}

// LLMConfig LLM 相关配置
type LLMConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	// Model 文本生成模型
	Model string `yaml:"model"`
	// ExtractModel 字段抽取模型，为空时使用 Model
	ExtractModel string `yaml:"extract_model"`
	Timeout      int    `yaml:"timeout"` // 秒
}

// ImageConfig 图片生成配置
type ImageConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	Size    string `yaml:"size"`
	Quality string `yaml:"quality"`
}

// BreakerConfig LLM 熔断配置
type BreakerConfig struct {
	FailureThreshold uint32 `yaml:"failure_threshold"`
	OpenTimeout      int    `yaml:"open_timeout"` // 秒
}

// DBConfig 数据库相关配置
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// DatasetConfig CSV 数据集配置
type DatasetConfig struct {
	Folder string `yaml:"folder"`
}

// LogConfig 日志相关配置
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// ConcurrencyConfig 并发控制配置
type ConcurrencyConfig struct {
	QPS int `yaml:"qps"`
	RPM int `yaml:"rpm"`
}

// Default 返回带默认值的配置
func Default() *Config {
	return &Config{
		LLM: LLMConfig{
			Model:        "gpt-5-nano",
			ExtractModel: "gpt-5-mini",
			Timeout:      60,
		},
		Image: ImageConfig{
			Model:   "dall-e-3",
			Size:    "1024x1024",
			Quality: "standard",
		},
		Breaker: BreakerConfig{
			FailureThreshold: 3,
			OpenTimeout:      30,
		},
		Log: LogConfig{Level: "info"},
		Concurrency: ConcurrencyConfig{
			QPS: 2,
			RPM: 60,
		},
		DB: DBConfig{
			Host: "localhost",
			Port: 5433,
			User: "mir_user",
			Name: "mir_db",
		},
		Dataset: DatasetConfig{Folder: "data"},
	}
}

// LoadConfig 从指定路径加载配置，未设置的字段保留默认值
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	cfg.ApplyEnv()

	return cfg, nil
}

// ApplyEnv 使用环境变量覆盖密钥类配置
func (c *Config) ApplyEnv() {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		if c.LLM.APIKey == "" {
			c.LLM.APIKey = v
		}
		if c.Image.APIKey == "" {
			c.Image.APIKey = v
		}
	}
	if v := os.Getenv("POSTGRES_PASSWORD"); v != "" && c.DB.Password == "" {
		c.DB.Password = v
	}
}
