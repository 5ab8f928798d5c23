package httpresponse

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	ownErrors "smart_horses/internal/errors"
)

type Response[T any] struct {
	Status int `json:"Status"`
	Body   any `json:"Body,omitempty"`
}

type ErrorResponse struct {
	ErrorDescription string `json:"ErrorDescription"`
}

const INTERNALERRORJSON = "{\"status\": 500,\"body\":{\"error\": \"Internal server error\"}}"

func WriteResponseWithStatus(w http.ResponseWriter, status int, body any) {
	jsonByte, err := marshalStatusJson(status, body)
	if err != nil {
		WriteInternalErrorResponse(w)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// после WriteHeader ошибку записи уже не спасти
	_, _ = w.Write(jsonByte)
}

func marshalStatusJson(status int, body any) ([]byte, error) {
	response := Response[any]{
		Status: status,
		Body:   body,
	}
	marshal, err := json.Marshal(response)
	if err != nil {
		return nil, err
	}
	return marshal, nil
}

func WriteInternalErrorResponse(w http.ResponseWriter) {
	// implementation similar to http.Error, only difference is the Content-type
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(500)
	_, _ = fmt.Fprintln(w, INTERNALERRORJSON)
}

// StatusForError maps the game error taxonomy to HTTP statuses: client
// mistakes are 400, turn-order and finished-game conflicts are 409,
// everything else 500.
func StatusForError(err error) int {
	switch {
	case errors.Is(err, ownErrors.ErrInvalidMove),
		errors.Is(err, ownErrors.ErrUnknownDifficulty),
		errors.Is(err, ownErrors.ErrUnknownSide),
		errors.Is(err, ownErrors.ErrOutOfBounds),
		errors.Is(err, ownErrors.ErrBadGameState),
		errors.Is(err, ownErrors.ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, ownErrors.ErrOutOfTurn),
		errors.Is(err, ownErrors.ErrGameFinished):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func WriteErrorResponse(w http.ResponseWriter, err error) {
	WriteResponseWithStatus(w, StatusForError(err), ErrorResponse{ErrorDescription: err.Error()})
}
