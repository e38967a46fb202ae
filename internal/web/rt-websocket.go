//    TextAnalysisWorkbench
//    Copyright: E Gunderson 2024-26
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package web

import (
	"github.com/e-gun/TextAnalysisWorkbench/internal/vlt"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

var (
	Upgrader = websocket.Upgrader{}
)

//
// THE ROUTE
//

// RtWebsocket - progress info for a running module (multiple clients at a time)
func (s *Server) RtWebsocket(c echo.Context) error {
	const (
		FAILCON = "RtWebsocket(): ws connection failed"
	)

	ws, err := Upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		s.Msg.NOTE(FAILCON)
		return nil
	}
	defer ws.Close()

	progresspoll := &vlt.WSClient{
		Conn: ws,
		Pool: s.Pool,
		Hub:  s.Hub,
	}

	s.Pool.Join(progresspoll)
	if progresspoll.ReceiveID() {
		progresspoll.WSMessageLoop()
	}
	s.Pool.Leave(progresspoll)
	return nil
}
