//    TextAnalysisWorkbench
//    Copyright: E Gunderson 2024-26
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package web

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/e-gun/TextAnalysisWorkbench/internal/bench"
	"github.com/e-gun/TextAnalysisWorkbench/internal/mm"
	"github.com/e-gun/TextAnalysisWorkbench/internal/str"
	"github.com/e-gun/TextAnalysisWorkbench/internal/vlt"
	"github.com/e-gun/TextAnalysisWorkbench/internal/vv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Server - what the routes need; built once in main.go
type Server struct {
	Bench  *bench.Bench
	Vault  *vlt.SessionVault
	Hub    *vlt.ProgressHub
	Pool   *vlt.WSPool
	Cfg    str.CurrentConfiguration
	Msg    *mm.MessageMaker
	Launch time.Time
}

// StartEchoServer - start serving; this blocks and does not return while the program remains alive
func StartEchoServer(s *Server) {
	e := NewEcho(s)
	e.Logger.Fatal(e.Start(fmt.Sprintf("%s:%d", s.Cfg.HostIP, s.Cfg.HostPort)))
}

// NewEcho - middleware and routes
func NewEcho(s *Server) *echo.Echo {
	const (
		LLOGFMT = "r: ${status}\tt: ${latency_human}\tu: ${uri}\n"
		RLOGFMT = "${remote_ip}\t${custom}\t${status}\t${bytes_out}\t${uri}\n"
	)

	// ctf - a CustomTagFunc return a short user agent
	ctf := func(c echo.Context, buf *bytes.Buffer) (int, error) {
		ua := strings.Split(c.Request().UserAgent(), " ")
		if len(ua) == 0 {
			return 0, nil
		}
		return buf.WriteString(ua[len(ua)-1])
	}

	//
	// SETUP
	//

	e := echo.New()
	e.Server.ReadTimeout = vv.TIMEOUTRD
	e.Server.WriteTimeout = vv.TIMEOUTWR

	switch s.Cfg.EchoLog {
	case 3:
		e.Use(middleware.Logger())
	case 2:
		e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{Format: RLOGFMT, CustomTagFunc: ctf}))
	case 1:
		e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{Format: LLOGFMT}))
	default:
		// do nothing
	}

	e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(vv.MAXECHOREQPERSECONDPERIP)))

	e.Use(middleware.Recover())

	if s.Cfg.MaxUploadMB > 0 {
		e.Use(middleware.BodyLimit(fmt.Sprintf("%dM", s.Cfg.MaxUploadMB)))
	}

	if s.Cfg.Gzip {
		e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
			Level:   5,
			Skipper: func(c echo.Context) bool { return c.Path() == "/ws" },
		}))
	}

	//
	// ROUTES
	//

	// [a] frontpage ("rt-frontpage.go")

	e.GET("/", s.RtFrontpage)

	// [b] the dataset ("rt-data.go")

	e.POST("/upload", s.RtUpload)
	e.GET("/data/status", s.RtStatus)
	e.GET("/data/preview", s.RtPreview) // "u: /data/preview?rows=25"
	e.GET("/data/view/:mode", s.RtView) // "u: /data/view/original"
	e.GET("/data/reset", s.RtReset)
	e.GET("/data/export/:fmt", s.RtExport)      // "u: /data/export/csv"
	e.GET("/data/columns/:module", s.RtColumns) // "u: /data/columns/topics"

	// [c] the modules ("rt-modules.go")

	e.POST("/mod/wordcloud", s.RtWordCloud)
	e.GET("/mod/wordcloud.png", s.RtCloudImage)
	e.POST("/mod/sentiment", s.RtSentiment)
	e.POST("/mod/topics", s.RtTopics)
	e.POST("/mod/topics/adjust", s.RtAdjustTopics)
	e.GET("/mod/topics/info", s.RtTopicInfo)
	e.POST("/mod/anonymize", s.RtAnonymize)
	e.GET("/chart/:name", s.RtChart) // "u: /chart/topicmap"

	// [d] websocket ("rt-websocket.go")

	e.GET("/ws", s.RtWebsocket)

	// [e] resets ("rt-session.go")

	e.GET("/reset/session", s.RtResetSession)

	e.HideBanner = true
	e.HidePort = false
	e.Debug = false
	e.DisableHTTP2 = true
	return e
}
