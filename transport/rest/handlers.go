package rest

import (
	"encoding/json"
	"net/http"

	"github.com/rocketscienceinc/tictactoe-oracle/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-oracle/internal/entity"
	"github.com/rocketscienceinc/tictactoe-oracle/internal/search"
)

type stateResponse struct {
	Board   [entity.Height][entity.Width]string `json:"board"`
	Turn    string                              `json:"turn"`
	Outcome string                              `json:"outcome"`
	Active  bool                                `json:"active"`
	Ply     int                                 `json:"ply"`
}

type intentRequest struct {
	Row *int `json:"row"`
	Col *int `json:"col"`
}

type intentResponse struct {
	Applied bool          `json:"applied"`
	BotMove *entity.Move  `json:"bot_move,omitempty"`
	State   stateResponse `json:"state"`
}

type suggestionResponse struct {
	Move      *entity.Move `json:"move"`
	Predicted string       `json:"predicted,omitempty"`
	Outcome   string       `json:"outcome"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func toStateResponse(state entity.GameState, ply int, active bool) stateResponse {
	response := stateResponse{
		Outcome: entity.Classify(state).String(),
		Active:  active,
		Ply:     ply,
	}

	for row := 0; row < entity.Height; row++ {
		for col := 0; col < entity.Width; col++ {
			response.Board[row][col] = state.At(row, col).String()
		}
	}

	if active {
		response.Turn = state.Turn().String()
	}

	return response
}

func (that *Server) currentState() stateResponse {
	history := that.controller.History()
	return toStateResponse(history[len(history)-1], len(history)-1, that.controller.IsActive())
}

func (that *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, that.currentState())
}

func (that *Server) handleHistory(w http.ResponseWriter, _ *http.Request) {
	history := that.controller.History()

	response := make([]stateResponse, 0, len(history))
	for ply, state := range history {
		response = append(response, toStateResponse(state, ply, !entity.Classify(state).IsTerminal()))
	}

	writeJSON(w, http.StatusOK, response)
}

func (that *Server) handleIntent(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "handleIntent")

	var payload intentRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Row == nil || payload.Col == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid payload"})
		return
	}

	if !that.controller.IsActive() {
		writeJSON(w, http.StatusConflict, errorResponse{Error: apperror.ErrMatchFinished.Error()})
		return
	}

	var applied bool
	if that.bot != nil {
		applied = that.controller.PlayAs(that.bot.Mark().Opponent(), *payload.Row, *payload.Col)
	} else {
		applied = that.controller.Play(*payload.Row, *payload.Col)
	}

	response := intentResponse{Applied: applied}

	if applied && that.bot != nil {
		move, played, err := that.bot.Respond(r.Context())
		if err != nil {
			log.Error("bot could not respond", "error", err)
		}
		if played {
			response.BotMove = &move
		}
	}

	response.State = that.currentState()

	status := http.StatusOK
	if !applied {
		status = http.StatusUnprocessableEntity
	}

	writeJSON(w, status, response)
}

func (that *Server) handleSuggestion(w http.ResponseWriter, r *http.Request) {
	state := that.controller.CurrentState()

	response := suggestionResponse{Outcome: entity.Classify(state).String()}

	if suggestion, ok := that.oracle.SuggestWithScore(r.Context(), state); ok {
		response.Move = &suggestion.Move
		response.Predicted = search.Predict(suggestion.Score).String()
	}

	writeJSON(w, http.StatusOK, response)
}

func (that *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	that.controller.Reset()

	if that.bot != nil {
		if _, _, err := that.bot.Respond(r.Context()); err != nil {
			that.logger.Error("bot could not open the match", "error", err)
		}
	}

	writeJSON(w, http.StatusOK, that.currentState())
}

func (that *Server) handleClearCache(w http.ResponseWriter, r *http.Request) {
	if that.cache == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "suggestion cache is disabled"})
		return
	}

	deleted, err := that.cache.DeleteAll(r.Context())
	if err != nil {
		that.logger.Error("could not clear suggestion cache", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "could not clear suggestion cache"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"deleted": deleted})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
