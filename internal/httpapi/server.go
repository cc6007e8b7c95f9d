package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/MimeLyc/yt-caption-translator/internal/service"
)

// Server exposes the translation pipeline over a small JSON API.
type Server struct {
	svc *service.Service

	mux    *http.ServeMux
	server *http.Server
}

func NewServer(svc *service.Service) *Server {
	s := &Server{
		svc: svc,
		mux: http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("/healthz", s.handleHealth)
	s.mux.HandleFunc("/api/translate", s.handleTranslate)
	s.mux.HandleFunc("/api/translate.srt", s.handleTranslateSRT)
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) ListenAndServe(addr string) error {
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
