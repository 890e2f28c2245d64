package handler

import (
	"net/http"

	"habitlog-service/internal/domain/apperr"
	"habitlog-service/internal/transport/http/middleware"
)

//nolint:gochecknoglobals
var kindStatus = map[apperr.Kind]int{
	apperr.KindUnauthorized:          http.StatusUnauthorized,
	apperr.KindSubscriptionNotFound:  http.StatusNotFound,
	apperr.KindNotFound:              http.StatusNotFound,
	apperr.KindDuplicateLog:          http.StatusConflict,
	apperr.KindConflict:              http.StatusConflict,
	apperr.KindEvidenceRejected:      http.StatusBadRequest,
	apperr.KindPastDateLog:           http.StatusBadRequest,
	apperr.KindInvalidArgument:       http.StatusBadRequest,
	apperr.KindLocationNotSet:        http.StatusBadRequest,
	apperr.KindPerceptionUnavailable: http.StatusInternalServerError,
	apperr.KindStoreError:            http.StatusInternalServerError,
	apperr.KindInternal:              http.StatusInternalServerError,
}

// StatusForKind maps an error kind onto an HTTP status
func StatusForKind(kind apperr.Kind) int {
	if status, ok := kindStatus[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// handleError writes err as the error envelope with the status of its kind
func handleError(w http.ResponseWriter, err error) {
	handleErrorStatus(w, err, StatusForKind(apperr.KindOf(err)))
}

func handleErrorStatus(w http.ResponseWriter, err error, status int) {
	kind := apperr.KindOf(err)
	middleware.WriteError(w, status, kind.Code(), apperr.MessageOf(err))
}

func badRequest(w http.ResponseWriter, message string) {
	middleware.WriteError(w, http.StatusBadRequest, apperr.KindInvalidArgument.Code(), message)
}
