package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/0xPolygonHermez/zkevm-node/log"
	"github.com/pkg/errors"
	"github.com/unidonate/unidonate-vault/vaulthook"
)

type amountRequest struct {
	Amount string `json:"amount"`
}

type errorResponse struct {
	Code    int    `json:"code"`
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warnf("error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	resp := errorResponse{Message: err.Error()}
	var d *vaulthook.Diagnostic
	if errors.As(err, &d) {
		resp.Kind = string(d.Kind)
		resp.Message = d.Message
		switch d.Kind {
		case vaulthook.InputError:
			status = http.StatusBadRequest
		case vaulthook.PreconditionError:
			status = http.StatusConflict
		}
	}
	resp.Code = status
	writeJSON(w, status, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	state := s.hook.State()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "OK",
		"timestamp":   time.Now().UTC().Format(time.RFC3339Nano),
		"blockNumber": state.BlockNumber,
		"updatedAt":   state.UpdatedAt,
	})
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.hook.State())
}

func (s *Server) handleDeposit(w http.ResponseWriter, r *http.Request) {
	s.handleAction(w, r, s.hook.Deposit)
}

func (s *Server) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	s.handleAction(w, r, s.hook.Withdraw)
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request, action func(string) error) {
	var req amountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: http.StatusBadRequest, Message: "invalid request body"})
		return
	}
	if err := action(req.Amount); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, s.hook.State())
}

func (s *Server) handleRefetch(w http.ResponseWriter, _ *http.Request) {
	s.hook.Refetch()
	writeJSON(w, http.StatusOK, s.hook.State())
}

// handleStream sends the state as a server sent event on every change
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	// only the latest state matters, older ones are dropped when the client is slow
	updates := make(chan vaulthook.State, 1)
	unsubscribe := s.hook.Subscribe(func(state vaulthook.State) {
		for {
			select {
			case updates <- state:
				return
			default:
			}
			select {
			case <-updates:
			default:
			}
		}
	})
	defer unsubscribe()

	send := func(state vaulthook.State) error {
		payload, err := json.Marshal(state)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "event: state\ndata: %s\n\n", payload); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	}
	if err := send(s.hook.State()); err != nil {
		log.Warnf("vault stream initial state: %v", err)
		return
	}

	heartbeat := time.NewTicker(s.cfg.HeartbeatInterval.Duration)
	defer heartbeat.Stop()
	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case state := <-updates:
			if err := send(state); err != nil {
				log.Debugf("vault stream closed: %v", err)
				return
			}
		}
	}
}
