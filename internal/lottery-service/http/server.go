package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/radieske/lotto-platform-poc/internal/game"
	"github.com/radieske/lotto-platform-poc/internal/game/betting"
	drawgen "github.com/radieske/lotto-platform-poc/internal/game/draw"
	"github.com/radieske/lotto-platform-poc/internal/lottery-service/dto"
)

// Server expõe a API pública do jogo: apostas, concursos e verificação de resultado.
type Server struct {
	log     *zap.Logger
	betting *betting.Service
	draws   game.DrawRepo
	bets    game.BetRepo
	gen     *drawgen.Generator
}

func NewServer(log *zap.Logger, b *betting.Service, draws game.DrawRepo, bets game.BetRepo, gen *drawgen.Generator) *Server {
	return &Server{log: log, betting: b, draws: draws, bets: bets, gen: gen}
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/bets", s.placeBet)   // POST
	mux.HandleFunc("/bets/", s.getBet)    // GET /bets/{id}
	mux.HandleFunc("/draws", s.listDraws) // GET ?status=...
	mux.HandleFunc("/draws/", s.drawByID) // GET /draws/{id} | POST /draws/{id}/verify
	return mux
}

func (s *Server) placeBet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req dto.PlaceBetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json", "")
		return
	}
	if req.UserID == "" || req.DrawID == "" {
		writeError(w, http.StatusBadRequest, "userId and drawId required", "")
		return
	}

	var sel game.Selection
	switch game.BetMethod(req.Method) {
	case game.MethodPosition:
		sel = game.NewPositionSelection(req.Numbers, req.Positions)
	case game.MethodAny:
		sel = game.NewAnySelection(req.Numbers, req.SelectedCount)
	case game.MethodGroup:
		sel = game.NewGroupSelection(req.Numbers)
	default:
		writeError(w, http.StatusBadRequest, "unknown method "+req.Method, game.ReasonBadMethod)
		return
	}

	bet, err := s.betting.PlaceBet(r.Context(), betting.PlaceBetInput{
		UserID:     req.UserID,
		DrawID:     req.DrawID,
		Selection:  sel,
		StakeCents: req.StakeCents,
		Multiplier: req.Multiplier,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	writeJSON(w, toBetResponse(bet))
}

func (s *Server) getBet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/bets/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "betId required", "")
		return
	}

	bet, err := s.bets.Get(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, "bet not found", "")
		return
	}
	writeJSON(w, toBetResponse(bet))
}

func (s *Server) listDraws(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	status := game.DrawStatus(r.URL.Query().Get("status"))
	if status == "" {
		status = game.DrawOpen
	}

	list, err := s.draws.ListByStatus(r.Context(), status, 50)
	if err != nil {
		s.log.Error("list draws failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error", "")
		return
	}

	out := make([]dto.DrawResponse, 0, len(list))
	for i := range list {
		out = append(out, toDrawResponse(&list[i]))
	}
	writeJSON(w, out)
}

// drawByID despacha GET /draws/{id} e POST /draws/{id}/verify.
func (s *Server) drawByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/draws/")
	if rest == "" {
		writeError(w, http.StatusBadRequest, "drawId required", "")
		return
	}

	if id, ok := strings.CutSuffix(rest, "/verify"); ok {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.verifyDraw(w, r, id)
		return
	}

	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	d, err := s.draws.Get(r.Context(), rest)
	if err != nil {
		writeError(w, http.StatusNotFound, "draw not found", "")
		return
	}
	writeJSON(w, toDrawResponse(d))
}

// verifyDraw refaz a expansão determinística do seed e compara com os números
// reivindicados. Sem seed no payload, usa o seed persistido do concurso.
func (s *Server) verifyDraw(w http.ResponseWriter, r *http.Request, id string) {
	var req dto.VerifyDrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json", "")
		return
	}

	d, err := s.draws.Get(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, "draw not found", "")
		return
	}

	seed := req.Seed
	if seed == "" {
		seed = d.Seed
	}
	claimed := req.Numbers
	if len(claimed) == 0 {
		claimed = d.WinningNumbers
	}

	valid, err := s.gen.Verify(d.ID, d.DrawsAt, claimed, seed)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, dto.VerifyDrawResponse{DrawID: d.ID, Valid: valid})
}

// writeDomainError traduz a taxonomia de erros do core para status HTTP.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, game.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error(), game.ReasonOf(err))
	case errors.Is(err, game.ErrInsufficientFunds):
		writeError(w, http.StatusPaymentRequired, "insufficient funds", "")
	case errors.Is(err, game.ErrConflict):
		writeError(w, http.StatusConflict, err.Error(), "")
	case errors.Is(err, game.ErrCollaborator):
		s.log.Error("collaborator failure", zap.Error(err))
		writeError(w, http.StatusBadGateway, "upstream dependency failed", "")
	default:
		s.log.Error("unhandled error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error", "")
	}
}

func toBetResponse(b *game.Bet) dto.BetResponse {
	return dto.BetResponse{
		BetID:                b.ID,
		UserID:               b.UserID,
		DrawID:               b.DrawID,
		Method:               string(b.Method),
		Numbers:              b.Numbers,
		Positions:            b.Positions,
		SelectedCount:        b.SelectedCount,
		StakeCents:           b.StakeCents,
		Multiplier:           b.Multiplier,
		OddsX100:             b.OddsX100,
		ElementaryCount:      b.ElementaryCount,
		StakeTotalCents:      b.StakeTotalCents,
		PotentialPayoutCents: b.PotentialPayoutCents,
		WinProbability:       b.WinProbability,
		Status:               string(b.Status),
		PayoutCents:          b.PayoutCents,
		SettledAt:            b.SettledAt,
		CreatedAt:            b.CreatedAt,
	}
}

func toDrawResponse(d *game.Draw) dto.DrawResponse {
	return dto.DrawResponse{
		DrawID:           d.ID,
		DrawNumber:       d.Number,
		Status:           string(d.Status),
		OpensAt:          d.OpensAt,
		ClosesAt:         d.ClosesAt,
		DrawsAt:          d.DrawsAt,
		WinningNumbers:   d.WinningNumbers,
		Seed:             d.Seed,
		BetCount:         d.BetCount,
		TotalStakeCents:  d.TotalStakeCents,
		TotalPayoutCents: d.TotalPayoutCents,
		ProfitCents:      d.ProfitCents,
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg, reason string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(dto.ErrorResponse{Error: msg, Reason: reason})
}
