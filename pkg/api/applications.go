package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/mwakio197/Dbot-sub001/pkg/bubble"
	"github.com/mwakio197/Dbot-sub001/pkg/bus"
	"github.com/mwakio197/Dbot-sub001/pkg/common"
	"github.com/mwakio197/Dbot-sub001/pkg/utility"
)

const maxBodyBytes = 64 << 10

type fieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

type submitResponse struct {
	RequestID string `json:"request_id"`
	ID        string `json:"id"`
}

func (s *Server) submitApplication(w http.ResponseWriter, r *http.Request) {
	var app common.Application
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&app); err != nil {
		s.writeError(w, r, http.StatusBadRequest, CodeBadJSON, "request body is not a valid application", nil)
		return
	}

	if err := s.validate.Struct(app); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			s.writeError(w, r, http.StatusBadRequest, CodeValidationFailed, err.Error(), nil)
			return
		}
		fields := make([]fieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fieldError{Field: fe.Field(), Rule: fe.Tag()})
		}
		s.writeError(w, r, http.StatusBadRequest, CodeValidationFailed, "application is invalid", fields)
		return
	}

	requestID := RequestID(r.Context())
	id, err := s.forward(r, app)
	if err != nil {
		s.logger.Warn("unable to forward application",
			zap.String("request_id", requestID),
			zap.Error(err))

		status := http.StatusBadGateway
		var apiErr *bubble.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
			status = apiErr.StatusCode
		}
		s.writeError(w, r, status, CodeUpstreamError, "application could not be submitted", nil)
		return
	}

	s.publish(common.ApplicationSubmitted{
		BackendID:   id,
		RequestID:   requestID,
		Application: app,
		Source:      "api",
		ExecutionId: utility.GetExecutionID(),
		TraceID:     utility.CreateTraceID(),
		TimeStamp:   time.Now().UTC(),
	})

	s.writeJSON(w, http.StatusOK, submitResponse{RequestID: requestID, ID: id})
}

func (s *Server) forward(r *http.Request, app common.Application) (string, error) {
	if s.workflow == "" {
		return s.upstream.Create(r.Context(), s.objectType, app)
	}

	var out struct {
		ID string `json:"id"`
	}
	if err := s.upstream.Workflow(r.Context(), s.workflow, app, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

func (s *Server) publish(submitted common.ApplicationSubmitted) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Post(bus.ApplicationEvent, submitted); err != nil {
		s.logger.Warn("unable to publish application",
			zap.String("request_id", submitted.RequestID),
			zap.Error(err))
	}
}
