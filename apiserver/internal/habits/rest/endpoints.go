package rest

import (
	"net/http"

	"github.com/2977094657/DidaAPI/apiserver/internal/habits"
	"github.com/2977094657/DidaAPI/apiserver/internal/restmachinery"
	"github.com/gorilla/mux"
)

type endpoints struct {
	*restmachinery.BaseEndpoints
	service habits.Service
}

// NewEndpoints returns the habit retrieval routes.
func NewEndpoints(
	baseEndpoints *restmachinery.BaseEndpoints,
	service habits.Service,
) restmachinery.Endpoints {
	return &endpoints{
		BaseEndpoints: baseEndpoints,
		service:       service,
	}
}

func (e *endpoints) Register(router *mux.Router) {
	// Habit list
	router.HandleFunc(
		"/v2/habits",
		e.list,
	).Methods(http.MethodGet)

	// Current week's check-in statistics
	router.HandleFunc(
		"/v2/habits/statistics/week",
		e.weekStats,
	).Methods(http.MethodGet)

	// Upstream's own habit spreadsheet, proxied
	router.HandleFunc(
		"/v2/habits/export",
		e.export,
	).Methods(http.MethodGet)
}

func (e *endpoints) list(w http.ResponseWriter, r *http.Request) {
	e.ServeRequest(
		restmachinery.InboundRequest{
			W: w,
			R: r,
			EndpointLogic: func() (interface{}, error) {
				return e.service.All(r.Context())
			},
			SuccessCode: http.StatusOK,
		},
	)
}

func (e *endpoints) weekStats(w http.ResponseWriter, r *http.Request) {
	e.ServeRequest(
		restmachinery.InboundRequest{
			W: w,
			R: r,
			EndpointLogic: func() (interface{}, error) {
				return e.service.WeekStats(r.Context())
			},
			SuccessCode: http.StatusOK,
		},
	)
}

func (e *endpoints) export(w http.ResponseWriter, r *http.Request) {
	e.ServeFileRequest(
		restmachinery.FileRequest{
			W: w,
			R: r,
			EndpointLogic: func() (restmachinery.FileResponse, error) {
				download, err := e.service.Export(r.Context())
				if err != nil {
					return restmachinery.FileResponse{}, err
				}
				return restmachinery.FileResponse{
					Filename:  download.Filename,
					MediaType: download.MediaType,
					Content:   download.Content,
				}, nil
			},
		},
	)
}
