// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package httpapi serves read-only queries over pools, pledges, projects and
// recorded facts.
package httpapi

import (
	"math/big"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/launchpad/pkg/distributor"
	"github.com/luxfi/launchpad/pkg/facts"
	"github.com/luxfi/launchpad/pkg/registry"
	luxlog "github.com/luxfi/log"
	"go.uber.org/zap"
)

// Pools is the read side of the registry.
type Pools interface {
	Pools() []registry.Pool
	Pool(id uint64) (registry.Pool, error)
	Pledges(id uint64) ([]registry.Pledge, error)
	PledgeOf(id uint64, acc common.Address) (registry.Pledge, error)
	TierMembers(id uint64, tierID uint64) ([]common.Address, error)
	Winners(id uint64) ([]common.Address, error)
}

// Projects is the read side of the distributor.
type Projects interface {
	Project(id uint64) (distributor.Project, error)
	Claimed(id uint64, participant common.Address) (*big.Int, error)
	Vested(id uint64, entitlement *big.Int, at time.Time) (*big.Int, error)
}

type Server struct {
	pools    Pools
	projects Projects
	facts    facts.Reader
	log      luxlog.Logger
	now      func() time.Time
}

func New(pools Pools, projects Projects, reader facts.Reader, log luxlog.Logger) *Server {
	if reader == nil {
		reader = facts.Noop{}
	}
	if log == nil {
		log = luxlog.NewNoOpLogger()
	}
	return &Server{pools: pools, projects: projects, facts: reader, log: log, now: time.Now}
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.logRequests)
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	r.Route("/pools", func(api chi.Router) {
		api.Get("/", func(w http.ResponseWriter, _ *http.Request) {
			writeData(w, "pools", s.pools.Pools())
		})
		api.Get("/{pool_id}", s.getPool)
		api.Get("/{pool_id}/pledges", s.getPledges)
		api.Get("/{pool_id}/pledges/{account}", s.getPledge)
		api.Get("/{pool_id}/tiers/{tier_id}", s.getTier)
		api.Get("/{pool_id}/winners", s.getWinners)
	})
	r.Route("/projects", func(api chi.Router) {
		api.Get("/{project_id}", s.getProject)
		api.Get("/{project_id}/claimed/{account}", s.getClaimed)
		api.Get("/{project_id}/vested", s.getVested)
	})
	r.Get("/facts", s.getFacts)
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug("request served",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("took", time.Since(start)),
		)
	})
}

func uintParam(w http.ResponseWriter, r *http.Request, name string) (uint64, bool) {
	v, err := strconv.ParseUint(chi.URLParam(r, name), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "BAD_PARAM", name+" must be an unsigned integer")
		return 0, false
	}
	return v, true
}

func addressParam(w http.ResponseWriter, r *http.Request, name string) (common.Address, bool) {
	v := chi.URLParam(r, name)
	if !common.IsHexAddress(v) {
		writeError(w, http.StatusBadRequest, "BAD_PARAM", name+" must be a hex address")
		return common.Address{}, false
	}
	return common.HexToAddress(v), true
}

func (s *Server) getPool(w http.ResponseWriter, r *http.Request) {
	id, ok := uintParam(w, r, "pool_id")
	if !ok {
		return
	}
	p, err := s.pools.Pool(id)
	if err != nil {
		writeFault(w, err)
		return
	}
	writeData(w, "pool", p)
}

func (s *Server) getPledges(w http.ResponseWriter, r *http.Request) {
	id, ok := uintParam(w, r, "pool_id")
	if !ok {
		return
	}
	pledges, err := s.pools.Pledges(id)
	if err != nil {
		writeFault(w, err)
		return
	}
	writeData(w, "pledges", pledges)
}

func (s *Server) getPledge(w http.ResponseWriter, r *http.Request) {
	id, ok := uintParam(w, r, "pool_id")
	if !ok {
		return
	}
	acc, ok := addressParam(w, r, "account")
	if !ok {
		return
	}
	pledge, err := s.pools.PledgeOf(id, acc)
	if err != nil {
		writeFault(w, err)
		return
	}
	writeData(w, "pledge", pledge)
}

func (s *Server) getTier(w http.ResponseWriter, r *http.Request) {
	id, ok := uintParam(w, r, "pool_id")
	if !ok {
		return
	}
	tierID, ok := uintParam(w, r, "tier_id")
	if !ok {
		return
	}
	members, err := s.pools.TierMembers(id, tierID)
	if err != nil {
		writeFault(w, err)
		return
	}
	writeData(w, "members", members)
}

func (s *Server) getWinners(w http.ResponseWriter, r *http.Request) {
	id, ok := uintParam(w, r, "pool_id")
	if !ok {
		return
	}
	winners, err := s.pools.Winners(id)
	if err != nil {
		writeFault(w, err)
		return
	}
	writeData(w, "winners", winners)
}

func (s *Server) getProject(w http.ResponseWriter, r *http.Request) {
	id, ok := uintParam(w, r, "project_id")
	if !ok {
		return
	}
	p, err := s.projects.Project(id)
	if err != nil {
		writeFault(w, err)
		return
	}
	writeData(w, "project", p)
}

func (s *Server) getClaimed(w http.ResponseWriter, r *http.Request) {
	id, ok := uintParam(w, r, "project_id")
	if !ok {
		return
	}
	acc, ok := addressParam(w, r, "account")
	if !ok {
		return
	}
	claimed, err := s.projects.Claimed(id, acc)
	if err != nil {
		writeFault(w, err)
		return
	}
	writeData(w, "claimed", claimed)
}

// getVested takes ?entitlement=<wei>&at=<unix seconds>; at defaults to now.
func (s *Server) getVested(w http.ResponseWriter, r *http.Request) {
	id, ok := uintParam(w, r, "project_id")
	if !ok {
		return
	}
	q := r.URL.Query()
	entitlement, ok := new(big.Int).SetString(q.Get("entitlement"), 10)
	if !ok || entitlement.Sign() < 0 {
		writeError(w, http.StatusBadRequest, "BAD_PARAM", "entitlement must be a non-negative integer")
		return
	}
	at := s.now()
	if raw := q.Get("at"); raw != "" {
		secs, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "BAD_PARAM", "at must be unix seconds")
			return
		}
		at = time.Unix(secs, 0)
	}
	vested, err := s.projects.Vested(id, entitlement, at)
	if err != nil {
		writeFault(w, err)
		return
	}
	writeData(w, "vested", vested)
}

func (s *Server) getFacts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := facts.Filter{Kind: facts.Kind(q.Get("kind")), Subject: q.Get("subject")}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			writeError(w, http.StatusBadRequest, "BAD_PARAM", "limit must be a non-negative integer")
			return
		}
		filter.Limit = limit
	}
	list, err := s.facts.List(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "FACTS_ERROR", err.Error())
		return
	}
	writeData(w, "facts", list)
}
