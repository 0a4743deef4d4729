// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/luxfi/launchpad/pkg/distributor"
	"github.com/luxfi/launchpad/pkg/fault"
	"github.com/luxfi/launchpad/pkg/registry"
)

func newRequestID() string { return "req_" + uuid.NewString() }

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("content-type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, key string, v any) {
	writeJSON(w, http.StatusOK, map[string]any{"request_id": newRequestID(), key: v})
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]any{
		"request_id": newRequestID(),
		"error": map[string]any{
			"code":    code,
			"message": message,
		},
	})
}

var notFound = []error{
	registry.ErrInvalidPool,
	registry.ErrInvalidTier,
	registry.ErrPledgeNotFound,
	distributor.ErrInvalidProject,
}

// writeFault maps a classified error to a status code.
func writeFault(w http.ResponseWriter, err error) {
	code := fault.Code(err)
	if code == "" {
		writeError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	for _, target := range notFound {
		if errors.Is(err, target) {
			writeError(w, http.StatusNotFound, code, err.Error())
			return
		}
	}
	status := http.StatusInternalServerError
	switch {
	case fault.IsKind(err, fault.KindValidation):
		status = http.StatusBadRequest
	case fault.IsKind(err, fault.KindAuthorization):
		status = http.StatusForbidden
	case fault.IsKind(err, fault.KindState):
		status = http.StatusConflict
	case fault.IsKind(err, fault.KindResource):
		status = http.StatusUnprocessableEntity
	}
	writeError(w, status, code, err.Error())
}
