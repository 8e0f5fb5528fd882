package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/mwakio197/Dbot-sub001/pkg/common"
	"github.com/mwakio197/Dbot-sub001/pkg/contract"
	"github.com/mwakio197/Dbot-sub001/pkg/menu"
	"github.com/mwakio197/Dbot-sub001/pkg/theme"
)

type detailsResponse struct {
	Contract common.ContractInfo `json:"contract"`
	Details  contract.Details    `json:"details"`
}

func (s *Server) contractDetails(w http.ResponseWriter, r *http.Request) {
	var info common.ContractInfo
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&info); err != nil {
		s.writeError(w, r, http.StatusBadRequest, CodeBadJSON, "request body is not a valid contract", nil)
		return
	}

	enriched := contract.Enrich(info)
	s.writeJSON(w, http.StatusOK, detailsResponse{
		Contract: enriched,
		Details:  contract.Summarize(enriched, contract.IsEnded),
	})
}

func (s *Server) getMenu(w http.ResponseWriter, r *http.Request) {
	opts := menu.Options{Theme: theme.FromRequest(r)}

	q := r.URL.Query()
	for name, dst := range map[string]*bool{
		"logged_in": &opts.LoggedIn,
		"virtual":   &opts.Virtual,
		"live_chat": &opts.LiveChat,
		"reports":   &opts.Reports,
	} {
		raw := q.Get(name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			s.writeError(w, r, http.StatusBadRequest, CodeBadQuery, "invalid boolean for "+name, nil)
			return
		}
		*dst = v
	}

	s.writeJSON(w, http.StatusOK, map[string]any{"items": menu.Build(opts)})
}

func (s *Server) getTheme(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"theme": theme.FromRequest(r).String()})
}

func (s *Server) toggleTheme(w http.ResponseWriter, r *http.Request) {
	next := theme.FromRequest(r).Toggle()
	theme.Set(w, next)
	s.writeJSON(w, http.StatusOK, map[string]string{"theme": next.String()})
}
