//    TextAnalysisWorkbench
//    Copyright: E Gunderson 2024-26
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package web

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/e-gun/TextAnalysisWorkbench/internal/bench"
	"github.com/e-gun/TextAnalysisWorkbench/internal/gen"
	"github.com/e-gun/TextAnalysisWorkbench/internal/vlt"
	"github.com/e-gun/TextAnalysisWorkbench/internal/vv"
	"github.com/labstack/echo/v4"
)

const (
	MIMECSV  = "text/csv; charset=utf-8"
	MIMEXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// modules as they appear in urls
var urlmodules = map[string]string{
	"wordcloud":  vv.MODWORDCLOUD,
	"sentiment":  vv.MODSENTIMENT,
	"topics":     vv.MODTOPICS,
	"anonymizer": vv.MODANON,
}

// StatusReply - the session status plus anything still running for it
type StatusReply struct {
	bench.Status
	Jobs int `json:"jobs"`
}

//
// ROUTING
//

// RtUpload - multipart form with the spreadsheet in "file"
func (s *Server) RtUpload(c echo.Context) error {
	s.Msg.LogPaths("RtUpload()")
	user := vlt.ReadUUIDCookie(c)

	fh, err := c.FormFile("file")
	if err != nil {
		return gen.JSONerror(c, err)
	}
	f, err := fh.Open()
	if err != nil {
		return gen.JSONerror(c, err)
	}
	defer f.Close()

	return s.act(c, user, func(cx bench.Context) (bench.Context, bench.Outcome, error) {
		return s.Bench.Upload(cx, fh.Filename, fh.Size, f)
	})
}

// RtStatus - file info, the applied chain, and the topic model state
func (s *Server) RtStatus(c echo.Context) error {
	s.Msg.LogPaths("RtStatus()")
	user := vlt.ReadUUIDCookie(c)
	cx := s.Vault.GetSess(user)
	return gen.JSONresponse(c, StatusReply{Status: cx.Status(), Jobs: s.Hub.Running(user)})
}

// RtPreview - the head of whichever dataset the view selector points at
func (s *Server) RtPreview(c echo.Context) error {
	s.Msg.LogPaths("RtPreview()")
	user := vlt.ReadUUIDCookie(c)

	n := vv.DEFAULTPREVIEWROWS
	if r := c.QueryParam("rows"); r != "" {
		v, err := strconv.Atoi(r)
		if err != nil {
			return gen.JSONerror(c, fmt.Errorf("rows: %w", err))
		}
		n = gen.Clamp(v, 1, vv.MAXPREVIEWROWS)
	}

	tb, err := s.Vault.GetSess(user).Preview(n)
	if err != nil {
		return gen.JSONerror(c, err)
	}
	return gen.JSONresponse(c, tb)
}

// RtView - "/data/view/original" or "/data/view/current"
func (s *Server) RtView(c echo.Context) error {
	s.Msg.LogPaths("RtView()")
	user := vlt.ReadUUIDCookie(c)
	mode := c.Param("mode")
	return s.act(c, user, func(cx bench.Context) (bench.Context, bench.Outcome, error) {
		return s.Bench.SetView(cx, mode)
	})
}

// RtReset - back to the upload
func (s *Server) RtReset(c echo.Context) error {
	s.Msg.LogPaths("RtReset()")
	user := vlt.ReadUUIDCookie(c)
	return s.act(c, user, s.Bench.Reset)
}

// RtExport - the current dataset as a download
func (s *Server) RtExport(c echo.Context) error {
	s.Msg.LogPaths("RtExport()")
	user := vlt.ReadUUIDCookie(c)

	format := c.Param("fmt")
	var b bytes.Buffer
	fn, err := s.Bench.Export(s.Vault.GetSess(user), format, &b)
	if err != nil {
		return gen.JSONerror(c, err)
	}

	mime := MIMECSV
	if format == "xlsx" {
		mime = MIMEXLSX
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", fn))
	return c.Blob(http.StatusOK, mime, b.Bytes())
}

// RtColumns - the column picker of one module
func (s *Server) RtColumns(c echo.Context) error {
	s.Msg.LogPaths("RtColumns()")
	user := vlt.ReadUUIDCookie(c)

	mod, ok := urlmodules[c.Param("module")]
	if !ok {
		return gen.JSONerror(c, fmt.Errorf("unknown module: %q", c.Param("module")))
	}
	cols, err := s.Bench.Columns(s.Vault.GetSess(user), mod)
	if err != nil {
		return gen.JSONerror(c, err)
	}
	return gen.JSONresponse(c, cols)
}

// act - run one handler against the session; the session only changes if the handler succeeds
func (s *Server) act(c echo.Context, user string, h func(bench.Context) (bench.Context, bench.Outcome, error)) error {
	const (
		FAIL = "%s failed for %s: %s"
	)

	var out bench.Outcome
	err := s.Vault.Update(user, func(cx bench.Context) (bench.Context, error) {
		nc, o, err := h(cx)
		out = o
		return nc, err
	})
	if err != nil {
		s.Msg.FYI(fmt.Sprintf(FAIL, c.Path(), user, err.Error()))
		return gen.JSONerror(c, err)
	}
	if out.Warning != "" {
		s.Msg.PEEK(out.Warning)
	}
	return gen.JSONresponse(c, out)
}
