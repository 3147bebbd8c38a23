package conf

type Bootstrap struct {
	Server      *Server
	Data        *Data
	Llm         *LLM         `json:"llm"`
	Image       *Image       `json:"image"`
	Breaker     *Breaker     `json:"breaker"`
	Concurrency *Concurrency `json:"concurrency"`
	Log         *Log         `json:"log"`
}

type Server struct {
	Http *HTTP
}

type HTTP struct {
	Addr    string
	Timeout string
}

type Data struct {
	Database *Database
}

type Database struct {
	Driver string
	Source string
}

type LLM struct {
	BaseUrl      string `json:"base_url"`
	ApiKey       string `json:"api_key"`
	Model        string `json:"model"`
	ExtractModel string `json:"extract_model"`
	Timeout      int32  `json:"timeout"`
}

type Image struct {
	BaseUrl string `json:"base_url"`
	ApiKey  string `json:"api_key"`
	Model   string `json:"model"`
	Size    string `json:"size"`
	Quality string `json:"quality"`
}

type Breaker struct {
	FailureThreshold uint32 `json:"failure_threshold"`
	OpenTimeout      int32  `json:"open_timeout"`
}

type Concurrency struct {
	Qps int32 `json:"qps"`
	Rpm int32 `json:"rpm"`
}

type Log struct {
	Level string `json:"level"`
	File  string `json:"file"`
}
