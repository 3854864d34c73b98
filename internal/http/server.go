package http

import (
	"github.com/gin-gonic/gin"
)

// Server fronts the pack and generation API. It owns the gin engine built
// from RouterConfig and nothing else; lifecycle stays with the caller.
type Server struct {
	Engine *gin.Engine
}

func NewServer(cfg RouterConfig) *Server {
	return &Server{Engine: NewRouter(cfg)}
}

// Run blocks serving on the given address until the listener fails.
func (s *Server) Run(address string) error {
	return s.Engine.Run(address)
}
