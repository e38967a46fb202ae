//    TextAnalysisWorkbench
//    Copyright: E Gunderson 2024-26
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package web

import (
	"bytes"
	"embed"
	"fmt"
	"net/http"
	"runtime"
	"strings"
	"text/template"
	"time"

	"github.com/e-gun/TextAnalysisWorkbench/internal/gen"
	"github.com/e-gun/TextAnalysisWorkbench/internal/lnch"
	"github.com/e-gun/TextAnalysisWorkbench/internal/mm"
	"github.com/e-gun/TextAnalysisWorkbench/internal/vlt"
	"github.com/e-gun/TextAnalysisWorkbench/internal/vv"
	"github.com/labstack/echo/v4"
)

//go:embed emb
var efs embed.FS

//
// ROUTING
//

// RtFrontpage - send the html for "/"
func (s *Server) RtFrontpage(c echo.Context) error {
	const (
		FP       = "emb/frontpage.html"
		UPSTR    = "[%v] %s uptime: %v [%s]"
		STATTMPL = "%s: %d"
		SPACER   = "    "
	)
	s.Msg.LogPaths("RtFrontpage()")

	// will set if missing
	vlt.ReadUUIDCookie(c)

	gc := lnch.GitCommit
	if gc == "" {
		gc = "UNKNOWN"
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	up := fmt.Sprintf(UPSTR, time.Now().Format(time.TimeOnly), vv.SHORTNAME,
		time.Since(s.Launch).Truncate(time.Minute), fmt.Sprintf("%dM", mem.HeapAlloc/1024/1024))

	ctr := mm.PathCounts()
	var stats []string
	for _, k := range gen.SortedKeys(ctr) {
		stats = append(stats, fmt.Sprintf(STATTMPL, k, ctr[k]))
	}

	j, e := efs.ReadFile(FP)
	if e != nil {
		s.Msg.WARN(fmt.Sprintf("RtFrontpage() can't find %s", FP))
		return c.String(http.StatusNotFound, "")
	}

	subs := map[string]any{
		"name":     vv.MYNAME,
		"version":  fmt.Sprintf("Version: %s [git: %s]", vv.VERSION+lnch.VersSuppl, gc),
		"env":      fmt.Sprintf("%s: %s - %s (%d workers)", runtime.Version(), runtime.GOOS, runtime.GOARCH, s.Cfg.WorkerCount),
		"uptime":   up,
		"stats":    strings.Join(stats, SPACER),
		"maxmb":    s.Cfg.MaxUploadMB,
		"sessions": s.Vault.Count(),
	}

	tmpl, e := template.New("fp").Parse(string(j))
	if e != nil {
		s.Msg.Caller("RtFrontpage()").EC(e)
		return c.String(http.StatusInternalServerError, "")
	}

	var b bytes.Buffer
	if e = tmpl.Execute(&b, subs); e != nil {
		s.Msg.Caller("RtFrontpage()").EC(e)
		return c.String(http.StatusInternalServerError, "")
	}
	return c.HTML(http.StatusOK, b.String())
}
