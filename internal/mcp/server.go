package mcp

import (
	"context"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"heroforge/internal/store"
	"heroforge/internal/story"
)

type Server struct {
	engine *story.Engine
	db     store.Store
	mcp    *sdk.Server
}

func NewServer(engine *story.Engine, db store.Store, version string) *Server {
	s := &Server{
		engine: engine,
		db:     db,
		mcp: sdk.NewServer(&sdk.Implementation{
			Name:    "heroforge",
			Version: version,
		}, nil),
	}
	s.registerTools()
	return s
}

func (s *Server) Run(ctx context.Context, transport sdk.Transport) error {
	return s.mcp.Run(ctx, transport)
}
