//    TextAnalysisWorkbench
//    Copyright: E Gunderson 2024-26
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package vlt

import (
	"context"
	"fmt"
	"runtime"
	"time"
)

//
// CHANNEL-BASED PROGRESS REPORTING BETWEEN ROUTINES: module routes write; websocket reads
//

const (
	FINWAIT = 10 * time.Second
	FINCHK  = 60 * time.Second
)

// JobInfo - where a running module has got to
type JobInfo struct {
	ID       string
	Session  string
	Module   string
	Stage    string
	Frac     float64
	Launched time.Time
	Exists   bool
}

// JobKV - ProgressHub helper struct for setting the stage of the job at map[Key]
type JobKV struct {
	Key   string
	Stage string
	Frac  float64
}

// JobReply - ProgressHub helper struct for returning the JobInfo stored at map[Key]
type JobReply struct {
	Key      string
	Response chan JobInfo
}

// JobCount - ProgressHub helper struct for counting the jobs of a session
type JobCount struct {
	Key      string
	Response chan int
}

// ProgressHub - the channels that talk to the loop inside Run()
type ProgressHub struct {
	InsertInfo  chan JobInfo
	UpdateStage chan JobKV
	RequestInfo chan JobReply
	SessionJobs chan JobCount
	Del         chan string
	done        chan struct{}
}

// BuildProgressHub - one at launch; call Run() before using it
func BuildProgressHub() *ProgressHub {
	return &ProgressHub{
		InsertInfo:  make(chan JobInfo),
		UpdateStage: make(chan JobKV, 2*runtime.NumCPU()),
		RequestInfo: make(chan JobReply),
		SessionJobs: make(chan JobCount),
		Del:         make(chan string),
		done:        make(chan struct{}),
	}
}

// Run - the loop that owns the job map; returns when ctx is cancelled
func (h *ProgressHub) Run(ctx context.Context) {
	var (
		allinfo  = make(map[string]JobInfo)
		finished = make(map[string]time.Time)
	)

	defer close(h.done)

	reporter := func(r JobReply) {
		if ji, ok := allinfo[r.Key]; ok {
			r.Response <- ji
		} else {
			// "false" ends the websocket loop
			r.Response <- JobInfo{ID: r.Key, Exists: false}
		}
	}

	fetchifexists := func(id string) JobInfo {
		if ji, ok := allinfo[id]; ok {
			return ji
		}
		return JobInfo{ID: id, Exists: true, Launched: time.Now()}
	}

	// a late progress report must not bring a finished job back
	storeunlessfinished := func(ji JobInfo) {
		if _, ok := finished[ji.ID]; !ok {
			allinfo[ji.ID] = ji
		}
	}

	cleanfinished := func() {
		for f, ft := range finished {
			if time.Since(ft) > FINWAIT {
				delete(finished, f)
			}
		}
	}

	sessioncount := func(s string) int {
		count := 0
		for _, v := range allinfo {
			if v.Session == s {
				count++
			}
		}
		return count
	}

	tick := time.NewTicker(FINCHK)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
			cleanfinished()
		case rq := <-h.RequestInfo:
			reporter(rq)
		case kv := <-h.UpdateStage:
			x := fetchifexists(kv.Key)
			x.Stage = kv.Stage
			x.Frac = kv.Frac
			storeunlessfinished(x)
		case ji := <-h.InsertInfo:
			delete(finished, ji.ID)
			ji.Exists = true
			allinfo[ji.ID] = ji
		case sc := <-h.SessionJobs:
			sc.Response <- sessioncount(sc.Key)
		case del := <-h.Del:
			finished[del] = time.Now()
			delete(allinfo, del)
		}
	}
}

// Fetch - a JobInfo with Exists == false once the job is over (or if the hub has stopped)
func (h *ProgressHub) Fetch(id string) JobInfo {
	responder := JobReply{Key: id, Response: make(chan JobInfo)}
	select {
	case h.RequestInfo <- responder:
		return <-responder.Response
	case <-h.done:
		return JobInfo{ID: id}
	}
}

// Running - how many jobs a session has in flight
func (h *ProgressHub) Running(session string) int {
	responder := JobCount{Key: session, Response: make(chan int)}
	select {
	case h.SessionJobs <- responder:
		return <-responder.Response
	case <-h.done:
		return 0
	}
}

// Launch - register a job; the returned Job is the Reporter handed to the module
func (h *ProgressHub) Launch(id, session, module string) *Job {
	ji := JobInfo{ID: id, Session: session, Module: module, Stage: "starting", Launched: time.Now()}
	select {
	case h.InsertInfo <- ji:
	case <-h.done:
	}
	Msg.PEEK(fmt.Sprintf("job %s launched: %s", id, module))
	return &Job{ID: id, hub: h}
}

// Job - implements bench.Reporter
type Job struct {
	ID  string
	hub *ProgressHub
}

func (j *Job) Report(stage string, frac float64) {
	select {
	case j.hub.UpdateStage <- JobKV{Key: j.ID, Stage: stage, Frac: frac}:
	case <-j.hub.done:
	}
}

// Finish - the websocket reporting this job closes on its next poll
func (j *Job) Finish() {
	select {
	case j.hub.Del <- j.ID:
	case <-j.hub.done:
	}
	Msg.PEEK(fmt.Sprintf("job %s finished", j.ID))
}
