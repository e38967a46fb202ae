//    TextAnalysisWorkbench
//    Copyright: E Gunderson 2024-26
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/e-gun/TextAnalysisWorkbench/internal/anon"
	"github.com/e-gun/TextAnalysisWorkbench/internal/bench"
	"github.com/e-gun/TextAnalysisWorkbench/internal/lexcache"
	"github.com/e-gun/TextAnalysisWorkbench/internal/lnch"
	"github.com/e-gun/TextAnalysisWorkbench/internal/mm"
	"github.com/e-gun/TextAnalysisWorkbench/internal/sentiment"
	"github.com/e-gun/TextAnalysisWorkbench/internal/str"
	"github.com/e-gun/TextAnalysisWorkbench/internal/textprep"
	"github.com/e-gun/TextAnalysisWorkbench/internal/topics"
	"github.com/e-gun/TextAnalysisWorkbench/internal/vlt"
	"github.com/e-gun/TextAnalysisWorkbench/internal/vv"
	"github.com/e-gun/TextAnalysisWorkbench/internal/web"
	"github.com/pkg/profile"
)

func main() {
	// go tool pprof --pdf ./TextAnalysisWorkbench /var/folders/.../cpu.pprof > profile.pdf
	lnch.ConfigAtLaunch()
	cfg := *lnch.Config
	msg := lnch.Msg
	defer msg.Sync()

	switch {
	case cfg.ProfileCPU:
		defer profile.Start().Stop()
	case cfg.ProfileMEM:
		defer profile.Start(profile.MemProfile).Stop()
	}

	if !cfg.QuietStart {
		lnch.PrintCopyright()
	}
	msg.MAND(lnch.VersionLine(cfg))

	start := time.Now()
	previous := time.Now()

	go mm.PathInfoHub()

	ctx := context.Background()
	hub := vlt.BuildProgressHub()
	go hub.Run(ctx)
	pool := vlt.WSFillNewPool()
	go pool.WSPoolStartListening(ctx)
	msg.Timer("A1", "progress hub and websocket pool listening", start, previous)

	previous = time.Now()
	b := bench.New(textprep.WhatLang{}, topics.NewLDA(cfg.LdaIterations, cfg.WorkerCount, uint64(cfg.TopicSeed)), lexicons(cfg, msg))
	b.Workers = cfg.WorkerCount
	b.Logf = msg.FYI
	if cfg.EmbedIter > 0 {
		b.Embedder = topics.NewWord2Vec(cfg.EmbedIter, cfg.WorkerCount)
	}
	b.Cloud.Width = cfg.CloudWidth
	b.Cloud.Height = cfg.CloudHeight
	if cfg.SentimentURL != "" {
		b.Transformer = sentiment.NewRemote(cfg.SentimentURL, cfg.SentimentKey)
		msg.NOTE(fmt.Sprintf("sentiment: VADER and the classifier at %s", cfg.SentimentURL))
	} else {
		msg.NOTE("sentiment: VADER only")
	}
	msg.Timer("A2", "workbench built", start, previous)

	s := &web.Server{
		Bench:  b,
		Vault:  vlt.MakeSessionVault(time.Duration(cfg.SessionTTL)*time.Minute, vv.SESSIONSWEEP),
		Hub:    hub,
		Pool:   pool,
		Cfg:    cfg,
		Msg:    msg,
		Launch: start,
	}

	msg.MAND(fmt.Sprintf("serving on http://%s:%d", cfg.HostIP, cfg.HostPort))
	web.StartEchoServer(s)
}

// lexicons - the anonymizer lists are fetched the first time someone asks for them; the sqlite file keeps
// the last good download for when the network is not there
func lexicons(cfg str.CurrentConfiguration, msg *mm.MessageMaker) *bench.LexiconSource {
	const (
		FAIL = "lexicon cache unavailable at '%s': %s"
	)
	return bench.NewLexiconSource(func(ctx context.Context) (anon.Lexicons, anon.Provenance) {
		src := anon.Sources{
			NamesURL:   cfg.NamesURL,
			IllnessURL: cfg.IllnessURL,
			Client:     &http.Client{Timeout: vv.LEXHTTPTIMEOUT * time.Second},
		}

		var cache anon.Cache
		db, err := lexcache.Open(cfg.LexiconDB)
		if err != nil {
			msg.WARN(fmt.Sprintf(FAIL, cfg.LexiconDB, err.Error()))
		} else {
			defer db.Close()
			cache = db
		}

		// the first request should not be able to cancel the download for everyone else
		lx, prov := anon.LoadLexicons(context.WithoutCancel(ctx), src, cache, msg.FYI)
		msg.NOTE(fmt.Sprintf("anonymizer lexicons: names from %s, illnesses from %s", prov.Names, prov.Illnesses))
		return lx, prov
	})
}
