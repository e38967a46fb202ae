//    TextAnalysisWorkbench
//    Copyright: E Gunderson 2024-26
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package vlt

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/e-gun/TextAnalysisWorkbench/internal/vv"
	"github.com/gorilla/websocket"
)

//
// WEBSOCKET INFRASTRUCTURE
//

type PollData struct {
	Module  string `json:"module"`
	Stage   string `json:"stage"`
	Frac    float64
	Elapsed string `json:"elapsed"`
	ID      string `json:"ID"`
}

type WSClient struct {
	ID   string
	Conn *websocket.Conn
	Pool *WSPool
	Hub  *ProgressHub
}

type WSPool struct {
	Add       chan *WSClient
	Remove    chan *WSClient
	ClientMap map[*WSClient]bool
	JSO       chan *WSJSOut
	ReadID    chan string
	Count     chan chan int
	done      chan struct{}
}

type WSJSOut struct {
	V     string `json:"value"`
	ID    string `json:"ID"`
	Close string `json:"close"`
}

// WSFillNewPool - build a new WSPool (one and only one built at launch)
func WSFillNewPool() *WSPool {
	return &WSPool{
		Add:       make(chan *WSClient),
		Remove:    make(chan *WSClient),
		ClientMap: make(map[*WSClient]bool),
		JSO:       make(chan *WSJSOut),
		ReadID:    make(chan string),
		Count:     make(chan chan int),
		done:      make(chan struct{}),
	}
}

// ReceiveID - get the job id from the client; false if it never arrives
func (c *WSClient) ReceiveID() bool {
	const (
		FAIL1 = `WSClient.ReceiveID() failed: %s`
		FAIL2 = `WSClient.ReceiveID() never received the job id`
	)

	_ = c.Conn.SetReadDeadline(time.Now().Add(vv.WSJOBWAIT))
	defer func() { _ = c.Conn.SetReadDeadline(time.Time{}) }()

	_, m, err := c.Conn.ReadMessage()
	if err != nil {
		Msg.FYI(fmt.Sprintf(FAIL1, err.Error()))
		return false
	}

	id := strings.TrimSpace(strings.ReplaceAll(string(m), `"`, ""))
	if id == "" {
		Msg.FYI(FAIL2)
		return false
	}
	c.ID = id
	c.Pool.send(c.Pool.ReadID, id)
	return true
}

// WSMessageLoop - output the progress of the job to the websocket until the job ends; then exit
func (c *WSClient) WSMessageLoop() {
	const (
		FAIL    = `WSClient.WSMessageLoop() never found '%s' in the ProgressHub`
		SUCCESS = `WSClient.WSMessageLoop() found '%s' in the ProgressHub`
	)

	// wait for the job to exist: the websocket usually opens before the module route gets going
	quit := time.Now().Add(vv.WSJOBWAIT)
	for {
		if c.Hub.Fetch(c.ID).Exists {
			Msg.FYI(fmt.Sprintf(SUCCESS, c.ID))
			break
		}
		if time.Now().After(quit) {
			Msg.FYI(fmt.Sprintf(FAIL, c.ID))
			break
		}
		time.Sleep(vv.WSPOLLINGPAUSE)
	}

	// loop until the job finishes
	for {
		ji := c.Hub.Fetch(c.ID)
		if !ji.Exists {
			break
		}
		pd := PollData{
			Module:  ji.Module,
			Stage:   ji.Stage,
			Frac:    ji.Frac,
			Elapsed: fmt.Sprintf("%.1fs", time.Since(ji.Launched).Seconds()),
			ID:      c.ID,
		}
		if !c.Pool.write(&WSJSOut{V: formatpoll(pd), ID: c.ID, Close: "open"}) {
			return
		}
		time.Sleep(vv.WSPOLLINGPAUSE)
	}
	c.Pool.write(&WSJSOut{ID: c.ID, Close: "close"})
}

// send - give up if the pool has stopped listening
func (pool *WSPool) send(ch chan string, s string) {
	select {
	case ch <- s:
	case <-pool.done:
	}
}

func (pool *WSPool) write(jso *WSJSOut) bool {
	select {
	case pool.JSO <- jso:
		return true
	case <-pool.done:
		return false
	}
}

func (pool *WSPool) Join(c *WSClient) {
	select {
	case pool.Add <- c:
	case <-pool.done:
	}
}

func (pool *WSPool) Leave(c *WSClient) {
	select {
	case pool.Remove <- c:
	case <-pool.done:
	}
}

// Clients - how many sockets are open
func (pool *WSPool) Clients() int {
	r := make(chan int)
	select {
	case pool.Count <- r:
		return <-r
	case <-pool.done:
		return 0
	}
}

// WSPoolStartListening - the WSPool will listen for activity on its various channels until ctx is cancelled
func (pool *WSPool) WSPoolStartListening(ctx context.Context) {
	const (
		MSG1 = "Starting polling loop for %s"
		MSG2 = "WSPool client failed on WriteMessage()"
	)

	defer close(pool.done)

	writemsg := func(jso *WSJSOut) {
		for cl := range pool.ClientMap {
			if cl.ID == jso.ID {
				js, y := json.Marshal(jso)
				Msg.EC(y)
				e := cl.Conn.WriteMessage(websocket.TextMessage, js)
				if e != nil {
					Msg.WARN(MSG2)
					delete(pool.ClientMap, cl)
				}
			}
		}
	}

	for {
		select {
		case <-ctx.Done():
			return
		case cl := <-pool.Add:
			pool.ClientMap[cl] = true
		case cl := <-pool.Remove:
			delete(pool.ClientMap, cl)
		case id := <-pool.ReadID:
			Msg.PEEK(fmt.Sprintf(MSG1, id))
		case wrt := <-pool.JSO:
			writemsg(wrt)
		case r := <-pool.Count:
			r <- len(pool.ClientMap)
		}
	}
}

// formatpoll - build HTML to send to the JS on the other side
func formatpoll(pd PollData) string {
	// example:
	// Topic Modeling: <span class="progress">30%</span> completed&nbsp;(1.2s)<br><span class="smallerthannormal">fitting</span>

	const (
		PCT = `%s: <span class="progress">%.0f%%</span> completed&nbsp;(%s)`
		EL  = `%s&nbsp;(%s)`
		STG = `<br><span class="smallerthannormal">%s</span>`
	)

	var htm string
	if pd.Frac > 0 {
		htm = fmt.Sprintf(PCT, pd.Module, pd.Frac*100, pd.Elapsed)
	} else {
		htm = fmt.Sprintf(EL, pd.Module, pd.Elapsed)
	}
	if pd.Stage != "" {
		htm += fmt.Sprintf(STG, pd.Stage)
	}
	return htm
}
