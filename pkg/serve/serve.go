package serve

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/cometwk/erpadmin/pkg/env"
	"github.com/cometwk/erpadmin/pkg/log"
	"github.com/cometwk/erpadmin/pkg/util"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/http2"
)

type EchoServer struct {
	initFunc func(e *echo.Echo) error
	// 每次启动 (包括 SIGHUP 重启) 前调用
	onBoot func() error
	// 服务停止后调用
	onStop func()
}

func NewEchoServer(init func(e *echo.Echo) error) *EchoServer {
	return &EchoServer{initFunc: init}
}

func (s *EchoServer) OnBoot(f func() error) *EchoServer {
	s.onBoot = f
	return s
}

func (s *EchoServer) OnStop(f func()) *EchoServer {
	s.onStop = f
	return s
}

// NewEngine 创建 echo 并安装基础中间件
func NewEngine() *echo.Echo {
	engine := echo.New()
	engine.Debug = env.IsDebug()
	engine.HideBanner = true
	engine.HidePort = true
	engine.HTTPErrorHandler = httpErrorHandler
	engine.Logger = &customLogger{entry: logrus.WithField("module", "echo")}

	engine.Use(middleware.Recover())
	engine.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string {
			return util.NextId("W") // W = WEB 跟踪号
		},
	}))
	engine.Use(middleware.BodyLimit("2M"))
	engine.Use(contextMiddleware())
	engine.Use(httpLogMiddleware())

	engine.Validator = NewCustomValidator()
	engine.Binder = NewCustomBinder()

	// 速率限制, GET 方法不限制
	rlconfig := middleware.DefaultRateLimiterConfig
	rlconfig.Store = middleware.NewRateLimiterMemoryStore(20)
	rlconfig.Skipper = func(c echo.Context) bool {
		return c.Request().Method == http.MethodGet
	}
	engine.Use(middleware.RateLimiterWithConfig(rlconfig))
	return engine
}

func setupLog() {
	logdir := env.DirPath("LOG_DIR", "./log")
	if err := os.MkdirAll(logdir, 0o755); err != nil {
		logrus.Fatalf("创建目录 '%s' 错: %v", logdir, err)
	}
	log.Init(log.Config{
		Level: env.String("LOG_LEVEL", "debug"),
		File:  path.Join(logdir, env.String("LOG_FILE", "main.log")),
	})
}

// Start 阻塞直到收到 SIGINT/SIGTERM; SIGHUP 时重新初始化并重启
func (s *EchoServer) Start() error {
	for {
		setupLog()
		if s.onBoot != nil {
			if err := s.onBoot(); err != nil {
				return err
			}
		}

		engine := NewEngine()
		if s.initFunc != nil {
			if err := s.initFunc(engine); err != nil {
				return err
			}
		}
		if env.IsDev() {
			printRoutes(engine)
		}

		go startup(engine)

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
		sig := <-quit
		signal.Stop(quit)
		logrus.Infof("接收到信号 %s", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := engine.Shutdown(ctx)
		cancel()
		if s.onStop != nil {
			s.onStop()
		}
		flushSentry()
		if err != nil {
			return err
		}
		if sig != syscall.SIGHUP {
			return nil
		}
		logrus.Info("重新启动服务")
	}
}

func startup(engine *echo.Echo) {
	bind := env.String("HOST", "") + ":" + env.String("PORT", "4444")

	// http/2 cleartext, https 由前置的 nginx/caddy 处理
	h2s := &http2.Server{
		MaxReadFrameSize:     1024 * 1024 * 5,
		MaxConcurrentStreams: 250,
		IdleTimeout:          10 * time.Second,
	}
	logrus.Infof("HTTP 服务 %d 准备就绪, 监听地址 %s", os.Getpid(), bind)

	if err := engine.StartH2CServer(bind, h2s); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			engine.Logger.Debug("服务器关闭, 清理...")
		} else {
			logrus.WithError(err).Fatalf("启动服务器错: %v", err)
		}
	}
}

func printRoutes(engine *echo.Echo) {
	routes := engine.Routes()
	sort.SliceStable(routes, func(i, j int) bool {
		return routes[i].Path < routes[j].Path
	})
	sb := strings.Builder{}
	for i, v := range routes {
		if v.Method == "echo_route_not_found" {
			continue
		}
		arr := strings.Split(v.Name, "/")
		fn := arr[len(arr)-1]
		sb.WriteString(fmt.Sprintf("\n%4d %-6s %-42s %s", i, v.Method, v.Path, fn))
	}
	fmt.Printf("%s\n", sb.String())
}
