package main

import (
	"expvar"
	"flag"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/liliang-cn/movies/internal/data"
	"github.com/liliang-cn/movies/internal/jsonlog"
)

var (
	buildTime string
	version   string
)

// 默认允许跨域的来源
var defaultTrustedOrigins = []string{
	"http://localhost:8080",
	"http://localhost:5001",
	"http://movies.com",
}

// 应用配置
type config struct {
	port    int
	env     string
	seed    string
	limiter struct {
		rps     float64
		burst   int
		enabled bool
	}
	cors struct {
		trustedOrigins []string
	}
}

// 应用定义
type application struct {
	config   config
	logger   *jsonlog.Logger
	models   data.Models
	shutdown chan struct{} // 关闭时通知后台 goroutine 退出
}

func main() {
	var cfg config
	flag.IntVar(&cfg.port, "port", defaultPort(), "API server port (defaults to $PORT, then 5001)")
	flag.StringVar(&cfg.env, "env", "development", "Environment (development|staging|production)")
	flag.StringVar(&cfg.seed, "seed", "", "Path to a JSON or YAML movie dataset (defaults to the embedded dataset)")
	flag.Float64Var(&cfg.limiter.rps, "limiter-rps", 2, "Rate limiter maximum requests per second")
	flag.IntVar(&cfg.limiter.burst, "limiter-burst", 4, "Rate limiter maximum burst")
	flag.BoolVar(&cfg.limiter.enabled, "limiter-enabled", true, "Enable rate limiter")
	cfg.cors.trustedOrigins = defaultTrustedOrigins
	flag.Func("cors-trusted-origins", "Trusted CORS origins (space separated)", func(val string) error {
		cfg.cors.trustedOrigins = strings.Fields(val)
		return nil
	})

	displayVersion := flag.Bool("version", false, "Display version and exit")

	flag.Parse()

	// 显示版本
	if *displayVersion {
		fmt.Printf("Version:\t%s\n", version)
		fmt.Printf("Build time:\t%s\n", buildTime)
		os.Exit(0)
	}

	logger := jsonlog.New(os.Stdout, jsonlog.LevelInfo)

	// 加载初始数据
	movies, err := data.LoadSeed(cfg.seed)
	if err != nil {
		logger.PrintFatal(err, map[string]string{"seed": cfg.seed})
	}

	logger.PrintInfo("movie dataset loaded", map[string]string{
		"movies": strconv.Itoa(len(movies)),
	})

	app := &application{
		config:   cfg,
		logger:   logger,
		models:   data.NewModels(movies),
		shutdown: make(chan struct{}),
	}

	// 发布版本信息
	expvar.NewString("version").Set(version)

	// 发布活动的 goroutine 数
	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))

	// 发布当前电影数量
	expvar.Publish("movies", expvar.Func(func() any {
		return app.models.Movies.Len()
	}))

	// 发布当前的时间信息
	expvar.Publish("timestamp", expvar.Func(func() any {
		return time.Now().Unix()
	}))

	// 启动 server
	err = app.serve()
	if err != nil {
		logger.PrintFatal(err, nil)
	}
}

// defaultPort 读取 PORT 环境变量，未设置或非法时使用 5001
func defaultPort() int {
	if port, err := strconv.Atoi(os.Getenv("PORT")); err == nil && port > 0 {
		return port
	}
	return 5001
}
