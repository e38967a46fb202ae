//    TextAnalysisWorkbench
//    Copyright: E Gunderson 2024-26
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package vlt

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/e-gun/TextAnalysisWorkbench/internal/bench"
	"github.com/e-gun/TextAnalysisWorkbench/internal/lnch"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/patrickmn/go-cache"
)

var Msg = lnch.Msg

//
// THREAD SAFE INFRASTRUCTURE: go-cache + a lock per session
//

// SessionVault - all the sessions; a session that sits idle for longer than the ttl is dropped
type SessionVault struct {
	cache *cache.Cache
	mutex sync.Mutex
	locks map[string]*sync.Mutex
}

// MakeSessionVault - called once at launch
func MakeSessionVault(ttl, sweep time.Duration) *SessionVault {
	sv := &SessionVault{
		cache: cache.New(ttl, sweep),
		locks: make(map[string]*sync.Mutex),
	}
	sv.cache.OnEvicted(func(id string, _ any) {
		sv.mutex.Lock()
		defer sv.mutex.Unlock()
		l, ok := sv.locks[id]
		if ok && !l.TryLock() {
			// an update is still running; it will put the session back when it finishes
			return
		}
		delete(sv.locks, id)
		if ok {
			l.Unlock()
		}
		Msg.TMI(fmt.Sprintf("SessionVault dropped %s", id))
	})
	return sv
}

func (sv *SessionVault) lockfor(id string) *sync.Mutex {
	sv.mutex.Lock()
	defer sv.mutex.Unlock()
	l, ok := sv.locks[id]
	if !ok {
		l = &sync.Mutex{}
		sv.locks[id] = l
	}
	return l
}

// acquire - lock the session; a lock that an eviction dropped before we got it is traded for the current one
func (sv *SessionVault) acquire(id string) *sync.Mutex {
	for {
		l := sv.lockfor(id)
		l.Lock()
		if sv.current(id, l) {
			return l
		}
		l.Unlock()
	}
}

func (sv *SessionVault) current(id string, l *sync.Mutex) bool {
	sv.mutex.Lock()
	defer sv.mutex.Unlock()
	return sv.locks[id] == l
}

func (sv *SessionVault) fetch(id string) bench.Context {
	if v, ok := sv.cache.Get(id); ok {
		return v.(bench.Context)
	}
	return bench.NewContext(id)
}

// GetSess - never blocks behind a running module: a busy session answers with what it had before the run
func (sv *SessionVault) GetSess(id string) bench.Context {
	l := sv.lockfor(id)
	if !l.TryLock() {
		return sv.fetch(id)
	}
	defer l.Unlock()
	if !sv.current(id, l) {
		return sv.fetch(id)
	}
	c := sv.fetch(id)
	sv.cache.SetDefault(id, c)
	return c
}

// Update - fn sees the latest Context and its result replaces it; on error the old Context stays.
// Two updates to the same session never run at the same time.
func (sv *SessionVault) Update(id string, fn func(bench.Context) (bench.Context, error)) error {
	l := sv.acquire(id)
	defer l.Unlock()

	c := sv.fetch(id)
	sv.cache.SetDefault(id, c)
	nc, err := fn(c)
	if err != nil {
		sv.cache.SetDefault(id, c)
		return err
	}
	sv.cache.SetDefault(id, nc)
	return nil
}

func (sv *SessionVault) Delete(id string) {
	sv.cache.Delete(id)
}

func (sv *SessionVault) IsInVault(id string) bool {
	_, ok := sv.cache.Get(id)
	return ok
}

func (sv *SessionVault) Count() int {
	return sv.cache.ItemCount()
}

// cookies here for import issues

// ReadUUIDCookie - find the ID of the client
func ReadUUIDCookie(c echo.Context) string {
	cookie, err := c.Cookie("ID")
	if err != nil || cookie.Value == "" {
		return WriteUUIDCookie(c)
	}
	return cookie.Value
}

// WriteUUIDCookie - set the ID of the client
func WriteUUIDCookie(c echo.Context) string {
	cookie := new(http.Cookie)
	cookie.Name = "ID"
	cookie.Path = "/"
	cookie.Value = uuid.New().String()
	cookie.Expires = time.Now().Add(4800 * time.Hour)
	cookie.HttpOnly = true
	c.SetCookie(cookie)
	Msg.TMI(fmt.Sprintf("WriteUUIDCookie() - new ID set: %s", cookie.Value))
	return cookie.Value
}
