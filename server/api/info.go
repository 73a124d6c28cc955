package api

import (
	"net/http"

	"github.com/dekarrin/chomsky/internal/version"
	"github.com/dekarrin/chomsky/server/result"
)

// HTTPGetInfo returns a HandlerFunc that retrieves information on the API and
// server.
func (api API) HTTPGetInfo() http.HandlerFunc {
	return api.handler(api.epGetInfo)
}

func (api API) epGetInfo(req *http.Request) result.Result {
	var resp InfoModel
	resp.Version.Server = version.ServerCurrent
	resp.Version.Chomsky = version.Current

	return result.OK(resp, "got API info")
}
