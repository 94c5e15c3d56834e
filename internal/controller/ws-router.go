package controller

import (
	"github.com/louismahl/got-companion/pkg/wsrouter"
)

func (c *controller) getPlayerWSRouter() *wsrouter.WSRouter {
	mux := wsrouter.New()
	mux.Use(c.wsRequestIdMw, c.loggerWSMw)

	wsrouter.Handle(mux, "ALIVE", c.handleAlive)
	wsrouter.Handle(mux, "UPDATE_PLAYBACK", c.handleUpdatePlayback)

	return mux
}

func (c *controller) getDisplayWSRouter() *wsrouter.WSRouter {
	mux := wsrouter.New()
	mux.Use(c.wsRequestIdMw, c.loggerWSMw)

	wsrouter.Handle(mux, "ALIVE", c.handleAlive)

	return mux
}
