package main

import (
	"flag"
	"os"

	"github.com/go-kratos/kratos/v2"
	"github.com/go-kratos/kratos/v2/config"
	"github.com/go-kratos/kratos/v2/config/file"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport/http"

	"github.com/iWorld-y/travel_profiler/app/profiler/internal/conf"
	"github.com/iWorld-y/travel_profiler/app/profiler/internal/data"
	"github.com/iWorld-y/travel_profiler/app/profiler/internal/server"
	"github.com/iWorld-y/travel_profiler/app/profiler/internal/service"
	"github.com/iWorld-y/travel_profiler/app/profiler/internal/usecase"
)

// go build -ldflags "-X main.Version=x.y.z"
var (
	// Name 是服务的名称
	Name string = "profiler"
	// Version 是服务的版本号
	Version string
	// flagconf 是配置文件的路径命令行参数
	flagconf string

	id, _ = os.Hostname()
)

func init() {
	flag.StringVar(&flagconf, "conf", "app/profiler/configs/config.yaml", "config path, eg: -conf config.yaml")
}

func main() {
	flag.Parse()
	// 初始化日志记录器，包含时间戳、调用者信息、服务ID等上下文
	logger := log.With(log.NewStdLogger(os.Stdout),
		"ts", log.DefaultTimestamp,
		"caller", log.DefaultCaller,
		"service.id", id,
		"service.name", Name,
		"service.version", Version,
	)

	c := config.New(
		config.WithSource(
			file.NewSource(flagconf),
		),
	)
	defer c.Close()

	if err := c.Load(); err != nil {
		panic(err)
	}

	var bc conf.Bootstrap
	if err := c.Scan(&bc); err != nil {
		panic(err)
	}

	app, cleanup, err := initApp(&bc, logger)
	if err != nil {
		panic(err)
	}
	defer cleanup()

	if err := app.Run(); err != nil {
		panic(err)
	}
}

// initApp 按依赖顺序构造各层组件
func initApp(bc *conf.Bootstrap, logger log.Logger) (*kratos.App, func(), error) {
	dataData, dataCleanup, err := data.NewData(bc.Data, logger)
	if err != nil {
		return nil, nil, err
	}
	generators, genCleanup, err := server.NewGenerators(bc, logger)
	if err != nil {
		dataCleanup()
		return nil, nil, err
	}

	profileUseCase := usecase.NewProfileUseCase(
		data.NewAggregateRepo(dataData, logger),
		generators.Assistant,
		generators.Prompts,
		generators.Text,
		generators.Image,
		data.NewRunRepo(dataData, logger),
		logger,
	)
	profileService := service.NewProfileService(profileUseCase, logger)
	httpServer := server.NewHTTPServer(bc.Server, profileService, logger)

	app := newApp(logger, httpServer)
	return app, func() {
		genCleanup()
		dataCleanup()
	}, nil
}

func newApp(logger log.Logger, hs *http.Server) *kratos.App {
	return kratos.New(
		kratos.ID(id),
		kratos.Name(Name),
		kratos.Version(Version),
		kratos.Metadata(map[string]string{}),
		kratos.Logger(logger),
		kratos.Server(hs),
	)
}
