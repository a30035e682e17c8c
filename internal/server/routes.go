package server

import "net/http"

// registerRoutes sets up all API endpoints
func (s *Server) registerRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/info", s.handleInfo)
	mux.HandleFunc("GET /api/verses/{uid}", s.handleGetVerse)
	mux.HandleFunc("GET /api/verses/{uid}/links", s.handleGetLinks)
	mux.HandleFunc("GET /api/verses/{uid}/note", s.handleGetNote)
	mux.HandleFunc("GET /api/chapters/{book}/{chapter}", s.handleGetChapter)
	mux.HandleFunc("GET /api/search", s.handleSearch)
	mux.HandleFunc("POST /api/ask", s.handleAsk)

	return s.logRequests(s.cors(mux))
}
