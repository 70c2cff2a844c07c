package server

import (
	"github.com/go-chi/chi/v5"

	"github.com/thiaworld/buyback-go/internal/modules/history"
	"github.com/thiaworld/buyback-go/internal/modules/rates"
	"github.com/thiaworld/buyback-go/internal/modules/valuation"
)

// setupRatesRoutes configures rate endpoints
func (s *Server) setupRatesRoutes(r chi.Router) {
	handler := rates.NewHandler(s.ratesService, s.ratesRepo, s.log)

	r.Route("/rates", func(r chi.Router) {
		r.Get("/", handler.HandleGetRates)
		r.Post("/refresh", handler.HandleRefresh)
		r.Get("/history", handler.HandleGetHistory)
		r.Get("/stats", handler.HandleGetStats)
	})
}

// setupValuationRoutes configures the estimate endpoint
func (s *Server) setupValuationRoutes(r chi.Router) {
	handler := valuation.NewHandler(s.ratesService.Cache(), s.log)

	r.Route("/valuation", func(r chi.Router) {
		r.Post("/estimate", handler.HandleEstimate)
	})
}

// setupHistoryRoutes configures buyback/booking ledger endpoints
func (s *Server) setupHistoryRoutes(r chi.Router) {
	repo := history.NewRepository(s.db.Conn(), s.log)
	recorder := history.NewRecorder(repo, s.eventManager, nil, s.log)
	handler := history.NewHandler(repo, recorder, s.ratesService.Cache(), s.cfg.Branches, s.log)

	r.Route("/history", func(r chi.Router) {
		r.Get("/", handler.HandleList)
		r.Post("/buyback", handler.HandleRecordBuyback)
		r.Post("/booking", handler.HandleRecordBooking)
	})
}
