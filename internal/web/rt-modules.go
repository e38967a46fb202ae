//    TextAnalysisWorkbench
//    Copyright: E Gunderson 2024-26
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package web

import (
	"net/http"

	"github.com/e-gun/TextAnalysisWorkbench/internal/bench"
	"github.com/e-gun/TextAnalysisWorkbench/internal/gen"
	"github.com/e-gun/TextAnalysisWorkbench/internal/topics"
	"github.com/e-gun/TextAnalysisWorkbench/internal/vlt"
	"github.com/e-gun/TextAnalysisWorkbench/internal/vv"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ModuleRequest - what the module forms post; Job is the id the page will follow on "/ws"
type ModuleRequest struct {
	Column      string   `json:"column" form:"column"`
	Job         string   `json:"job" form:"job"`
	RemoveStops bool     `json:"remove_stopwords" form:"remove_stopwords"`
	Exclude     []string `json:"exclude" form:"exclude"`
	Topics      int      `json:"topics" form:"topics"`
	StopWords   []string `json:"stopwords" form:"stopwords"`
}

func (s *Server) job(rq ModuleRequest, user, module string) *vlt.Job {
	id := rq.Job
	if id == "" {
		id = uuid.New().String()
	}
	return s.Hub.Launch(id, user, module)
}

//
// ROUTING
//

// RtWordCloud - first call: the top words; later calls carry the words to exclude
func (s *Server) RtWordCloud(c echo.Context) error {
	s.Msg.LogPaths("RtWordCloud()")
	user := vlt.ReadUUIDCookie(c)

	var rq ModuleRequest
	if err := c.Bind(&rq); err != nil {
		return gen.JSONerror(c, err)
	}
	return s.act(c, user, func(cx bench.Context) (bench.Context, bench.Outcome, error) {
		return s.Bench.WordCloud(cx, bench.CloudRequest{Column: rq.Column, RemoveStops: rq.RemoveStops, Exclude: rq.Exclude})
	})
}

// RtCloudImage - the png made by the last RtWordCloud
func (s *Server) RtCloudImage(c echo.Context) error {
	s.Msg.LogPaths("RtCloudImage()")
	user := vlt.ReadUUIDCookie(c)

	png, err := s.Vault.GetSess(user).CloudImage()
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	}
	return c.Blob(http.StatusOK, "image/png", png)
}

func (s *Server) RtSentiment(c echo.Context) error {
	s.Msg.LogPaths("RtSentiment()")
	user := vlt.ReadUUIDCookie(c)

	var rq ModuleRequest
	if err := c.Bind(&rq); err != nil {
		return gen.JSONerror(c, err)
	}
	j := s.job(rq, user, vv.MODSENTIMENT)
	defer j.Finish()

	return s.act(c, user, func(cx bench.Context) (bench.Context, bench.Outcome, error) {
		return s.Bench.Sentiment(c.Request().Context(), cx, rq.Column, j)
	})
}

// RtTopics - a fresh fit; Topics == 0 keeps the natural count
func (s *Server) RtTopics(c echo.Context) error {
	s.Msg.LogPaths("RtTopics()")
	user := vlt.ReadUUIDCookie(c)

	var rq ModuleRequest
	if err := c.Bind(&rq); err != nil {
		return gen.JSONerror(c, err)
	}
	j := s.job(rq, user, vv.MODTOPICS)
	defer j.Finish()

	req := topics.Request{Column: rq.Column, Topics: rq.Topics, UserStops: rq.StopWords}
	return s.act(c, user, func(cx bench.Context) (bench.Context, bench.Outcome, error) {
		return s.Bench.TopicModel(cx, req, j)
	})
}

// RtAdjustTopics - merge or expand the fitted model
func (s *Server) RtAdjustTopics(c echo.Context) error {
	s.Msg.LogPaths("RtAdjustTopics()")
	user := vlt.ReadUUIDCookie(c)

	var rq ModuleRequest
	if err := c.Bind(&rq); err != nil {
		return gen.JSONerror(c, err)
	}
	j := s.job(rq, user, vv.MODTOPICS)
	defer j.Finish()

	return s.act(c, user, func(cx bench.Context) (bench.Context, bench.Outcome, error) {
		return s.Bench.AdjustTopics(cx, rq.Topics, j)
	})
}

// RtTopicInfo - the topic table of the fitted model
func (s *Server) RtTopicInfo(c echo.Context) error {
	s.Msg.LogPaths("RtTopicInfo()")
	user := vlt.ReadUUIDCookie(c)

	ov, err := s.Bench.TopicOverview(s.Vault.GetSess(user))
	if err != nil {
		return gen.JSONerror(c, err)
	}
	return gen.JSONresponse(c, ov)
}

func (s *Server) RtAnonymize(c echo.Context) error {
	s.Msg.LogPaths("RtAnonymize()")
	user := vlt.ReadUUIDCookie(c)

	var rq ModuleRequest
	if err := c.Bind(&rq); err != nil {
		return gen.JSONerror(c, err)
	}
	j := s.job(rq, user, vv.MODANON)
	defer j.Finish()

	return s.act(c, user, func(cx bench.Context) (bench.Context, bench.Outcome, error) {
		j.Report("loading the name and illness lists", 0)
		return s.Bench.Anonymize(c.Request().Context(), cx, rq.Column)
	})
}

// RtChart - the html of a rendered chart; meant for an iframe
func (s *Server) RtChart(c echo.Context) error {
	s.Msg.LogPaths("RtChart()")
	user := vlt.ReadUUIDCookie(c)

	h, err := s.Vault.GetSess(user).Chart(c.Param("name"))
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	}
	return c.HTML(http.StatusOK, h)
}
