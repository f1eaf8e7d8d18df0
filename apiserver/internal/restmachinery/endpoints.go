package restmachinery

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"

	dida "github.com/2977094657/DidaAPI"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/xeipuuv/gojsonschema"
)

// Endpoints is an interface for any component that can register one or more
// routes on the server's router.
type Endpoints interface {
	Register(router *mux.Router)
}

// BaseEndpoints provides the request-serving machinery shared by every
// endpoints implementation.
type BaseEndpoints struct {
	Logger zerolog.Logger
}

// InboundRequest bundles everything BaseEndpoints needs to serve one API
// request.
type InboundRequest struct {
	W                   http.ResponseWriter
	R                   *http.Request
	ReqBodySchemaLoader gojsonschema.JSONLoader
	ReqBodyObj          interface{}
	EndpointLogic       func() (interface{}, error)
	SuccessCode         int
}

func (b *BaseEndpoints) readAndValidateRequestBody(
	w http.ResponseWriter,
	r *http.Request,
	bodySchemaLoader gojsonschema.JSONLoader,
	bodyObj interface{},
) bool {
	defer r.Body.Close() // nolint: errcheck
	bodyBytes, err := ioutil.ReadAll(r.Body)
	if err != nil {
		// Log it in case something is actually wrong...
		b.Logger.Warn().Err(err).Msg("error reading request body")
		// But we're going to assume this is because the request body is
		// missing, so we'll treat it as a bad request.
		b.WriteAPIResponse(
			w,
			http.StatusBadRequest,
			dida.NewErrBadRequest("Could not read request body."),
		)
		return false
	}
	if bodySchemaLoader != nil {
		var validationResult *gojsonschema.Result
		validationResult, err = gojsonschema.Validate(
			bodySchemaLoader,
			gojsonschema.NewBytesLoader(bodyBytes),
		)
		if err != nil {
			// Log it in case something is actually wrong...
			b.Logger.Warn().Err(err).Msg("error validating request body")
			// But as long as the schema itself was valid, the most likely
			// scenario here is that the request body wasn't valid JSON, so
			// we'll treat this as a bad request.
			b.WriteAPIResponse(
				w,
				http.StatusBadRequest,
				dida.NewErrBadRequest("Could not validate request body."),
			)
			return false
		}
		if !validationResult.Valid() {
			// We don't bother to log this because this is DEFINITELY a bad
			// request.
			verrStrs := make([]string, len(validationResult.Errors()))
			for i, verr := range validationResult.Errors() {
				verrStrs[i] = verr.String()
			}
			b.WriteAPIResponse(
				w,
				http.StatusBadRequest,
				dida.NewErrBadRequest(
					"Request body failed JSON validation",
					verrStrs...,
				),
			)
			return false
		}
	}
	if bodyObj != nil {
		if err = json.Unmarshal(bodyBytes, bodyObj); err != nil {
			b.Logger.Error().Err(err).Msg("error unmarshaling request body")
			// We were already able to validate the request body, which means
			// it was valid JSON. If something went wrong with unmarshaling,
			// it's NOT because of a bad request-- it's a real, internal
			// problem.
			b.WriteAPIResponse(
				w,
				http.StatusInternalServerError,
				dida.NewErrInternalServer(),
			)
			return false
		}
	}
	return true
}

func (b *BaseEndpoints) ServeRequest(req InboundRequest) {
	if req.ReqBodySchemaLoader != nil || req.ReqBodyObj != nil {
		if !b.readAndValidateRequestBody(
			req.W,
			req.R,
			req.ReqBodySchemaLoader,
			req.ReqBodyObj,
		) {
			return
		}
	}
	respBodyObj, err := req.EndpointLogic()
	if err != nil {
		b.writeAPIError(req.W, err)
		return
	}
	b.WriteAPIResponse(req.W, req.SuccessCode, respBodyObj)
}

// FileRequest bundles everything BaseEndpoints needs to serve one request
// whose success response is a file download rather than JSON.
type FileRequest struct {
	W             http.ResponseWriter
	R             *http.Request
	EndpointLogic func() (FileResponse, error)
}

// FileResponse describes one file download.
type FileResponse struct {
	Filename  string
	MediaType string
	Content   []byte
}

func (b *BaseEndpoints) ServeFileRequest(req FileRequest) {
	file, err := req.EndpointLogic()
	if err != nil {
		b.writeAPIError(req.W, err)
		return
	}
	req.W.Header().Set("Content-Type", file.MediaType)
	req.W.Header().Set(
		"Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", file.Filename),
	)
	req.W.WriteHeader(http.StatusOK)
	if _, err := req.W.Write(file.Content); err != nil {
		b.Logger.Error().Err(err).Msg("error writing file response body")
	}
}

func (b *BaseEndpoints) writeAPIError(w http.ResponseWriter, err error) {
	switch e := errors.Cause(err).(type) {
	case *dida.ErrBadRequest:
		b.WriteAPIResponse(w, http.StatusBadRequest, e)
	case *dida.ErrNoSession:
		b.WriteAPIResponse(w, http.StatusUnauthorized, e)
	case *dida.ErrAuthentication:
		b.WriteAPIResponse(w, http.StatusUnauthorized, e)
	case *dida.ErrNotFound:
		b.WriteAPIResponse(w, http.StatusNotFound, e)
	case *dida.ErrPollTimeout:
		b.WriteAPIResponse(w, http.StatusRequestTimeout, e)
	case *dida.ErrNotSupported:
		b.WriteAPIResponse(w, http.StatusNotImplemented, e)
	case *dida.ErrUpstreamHTTP:
		b.WriteAPIResponse(w, http.StatusBadGateway, e)
	case *dida.ErrExtraction:
		b.WriteAPIResponse(w, http.StatusBadGateway, e)
	case *dida.ErrPagination:
		b.WriteAPIResponse(w, http.StatusBadGateway, e)
	case *dida.ErrInternalServer:
		b.WriteAPIResponse(w, http.StatusInternalServerError, e)
	default:
		b.Logger.Error().Err(err).Msg("unrecognized error serving request")
		b.WriteAPIResponse(
			w,
			http.StatusInternalServerError,
			dida.NewErrInternalServer(),
		)
	}
}

func (b *BaseEndpoints) WriteAPIResponse(
	w http.ResponseWriter,
	statusCode int,
	response interface{},
) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	responseBody, ok := response.([]byte)
	if !ok {
		var err error
		if responseBody, err = json.Marshal(response); err != nil {
			b.Logger.Error().Err(err).Msg("error marshaling response body")
		}
	}
	if _, err := w.Write(responseBody); err != nil {
		b.Logger.Error().Err(err).Msg("error writing response body")
	}
}
