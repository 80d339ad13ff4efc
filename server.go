package kcicfg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	stdslog "log/slog"
	"net"
	"net/http"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/kernelci/kcicfg/config"
	"github.com/kernelci/kcicfg/internal/httplog"
	"github.com/kernelci/kcicfg/internal/slog"
	"github.com/kernelci/kcicfg/types"
)

// Server provides read-only access to platforms over HTTP.
type Server struct {
	mu         sync.Mutex
	conf       config.Config
	log        slog.Logger
	platforms  map[string]types.Platform
	httpServer *http.Server
}

// NewServer returns a Server for the platforms in pc.
func NewServer(conf config.Config, pc PlatformConfig) *Server {
	conf.SetDefaults()
	platforms := make(map[string]types.Platform, len(pc.Platforms))
	for name, p := range pc.Platforms {
		platforms[name] = p.Copy()
	}
	return &Server{
		conf:      conf,
		log:       conf.Log,
		platforms: platforms,
	}
}

// Run starts a listener on the configured address and serves requests in the background.
func (s *Server) Run(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.httpServer != nil {
		return fmt.Errorf("server is already running")
	}
	var handler http.Handler = s
	if l, ok := s.log.(*stdslog.Logger); ok {
		handler = httplog.New(handler, l, stdslog.LevelDebug)
	}
	s.httpServer = &http.Server{
		Addr:              s.conf.HTTP.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	ln, err := net.Listen("tcp", s.conf.HTTP.Addr)
	if err != nil {
		s.httpServer = nil
		return err
	}
	s.log.Info("listening", "addr", ln.Addr().String())
	go func(hs *http.Server) {
		err := hs.Serve(ln)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Warn("server failed", "err", err)
		}
	}(s.httpServer)
	return nil
}

// Shutdown stops a running server, waiting for active requests to finish.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.httpServer == nil {
		return nil
	}
	err := s.httpServer.Shutdown(ctx)
	s.httpServer = nil
	return err
}

func (s *Server) ServeHTTP(resp http.ResponseWriter, req *http.Request) {
	// parse request path, cleaning traversal attacks, and stripping leading and trailing slash
	pathEl := strings.Split(strings.Trim(path.Clean("/"+req.URL.Path), "/"), "/")
	if pathEl[0] != "platforms" || len(pathEl) > 2 {
		s.errResp(resp, http.StatusNotFound, types.ErrInfoNotFound(req.URL.Path))
		return
	}
	if req.Method != http.MethodGet && req.Method != http.MethodHead {
		resp.Header().Set("Allow", "GET, HEAD")
		s.errResp(resp, http.StatusMethodNotAllowed, types.ErrInfoUnsupported(req.Method))
		return
	}
	if len(pathEl) == 1 {
		s.platformList(resp, req)
		return
	}
	s.platformGet(resp, req, pathEl[1])
}

func (s *Server) platformList(resp http.ResponseWriter, req *http.Request) {
	pl := struct {
		Platforms []string `json:"platforms"`
	}{
		Platforms: Names(s.platforms),
	}
	body, err := json.Marshal(pl)
	if err != nil {
		resp.WriteHeader(http.StatusInternalServerError)
		s.log.Warn("failed to marshal platform list", "err", err)
		return
	}
	s.write(resp, req, http.StatusOK, body)
}

func (s *Server) platformGet(resp http.ResponseWriter, req *http.Request, name string) {
	p, ok := s.platforms[name]
	if !ok {
		s.errResp(resp, http.StatusNotFound, types.ErrInfoPlatformUnknown(name))
		return
	}
	body, err := json.Marshal(p)
	if err != nil {
		resp.WriteHeader(http.StatusInternalServerError)
		s.log.Warn("failed to marshal platform", "name", name, "err", err)
		return
	}
	d, err := p.Digest()
	if err != nil {
		resp.WriteHeader(http.StatusInternalServerError)
		s.log.Warn("failed to digest platform", "name", name, "err", err)
		return
	}
	etag := fmt.Sprintf("%q", d.String())
	resp.Header().Set("ETag", etag)
	if match := req.Header.Get("If-None-Match"); match != "" && match == etag {
		resp.WriteHeader(http.StatusNotModified)
		return
	}
	s.write(resp, req, http.StatusOK, body)
}

func (s *Server) write(resp http.ResponseWriter, req *http.Request, status int, body []byte) {
	resp.Header().Set("Content-Type", "application/json")
	resp.Header().Set("Content-Length", fmt.Sprintf("%d", len(body)))
	resp.WriteHeader(status)
	if req.Method != http.MethodHead {
		_, err := resp.Write(body)
		if err != nil {
			s.log.Warn("failed to write response", "err", err)
		}
	}
}

func (s *Server) errResp(resp http.ResponseWriter, status int, errList ...types.ErrorInfo) {
	resp.Header().Set("Content-Type", "application/json")
	resp.WriteHeader(status)
	_ = types.ErrRespJSON(resp, errList...)
}
