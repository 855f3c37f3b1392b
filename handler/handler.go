package handler

import (
	"github.com/emzola/bookmarket/config"
	"github.com/emzola/bookmarket/internal/jsonlog"
	"github.com/emzola/bookmarket/service"
	"github.com/jellydator/ttlcache/v3"
)

// Handler defines Handler layer.
type Handler struct {
	config  config.Config
	logger  *jsonlog.Logger
	cache   *ttlcache.Cache[string, int64]
	service service.Service
}

// New creates a new instance of Handler. The cache maps book keys to owner IDs
// for the ownership middleware.
func New(cfg config.Config, logger *jsonlog.Logger, cache *ttlcache.Cache[string, int64], service service.Service) *Handler {
	return &Handler{
		config:  cfg,
		logger:  logger,
		cache:   cache,
		service: service,
	}
}
