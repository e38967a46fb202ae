//    TextAnalysisWorkbench
//    Copyright: E Gunderson 2024-26
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package web

import (
	"net/http"

	"github.com/e-gun/TextAnalysisWorkbench/internal/vlt"
	"github.com/labstack/echo/v4"
)

// RtResetSession - delete the session and hand out a new ID
func (s *Server) RtResetSession(c echo.Context) error {
	s.Msg.LogPaths("RtResetSession()")
	id := vlt.ReadUUIDCookie(c)

	// a module still running for the old id writes into a session nobody will ask for again
	s.Vault.Delete(id)

	vlt.WriteUUIDCookie(c)

	e := c.Redirect(http.StatusFound, "/")
	s.Msg.Caller("RtResetSession()").EC(e)
	return nil
}
