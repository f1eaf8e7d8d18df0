package rest

import (
	"net/http"

	"github.com/2977094657/DidaAPI/apiserver/internal/export"
	"github.com/2977094657/DidaAPI/apiserver/internal/restmachinery"
	"github.com/gorilla/mux"
)

type endpoints struct {
	*restmachinery.BaseEndpoints
	service export.Service
}

// NewEndpoints returns the xlsx export routes.
func NewEndpoints(
	baseEndpoints *restmachinery.BaseEndpoints,
	service export.Service,
) restmachinery.Endpoints {
	return &endpoints{
		BaseEndpoints: baseEndpoints,
		service:       service,
	}
}

func (e *endpoints) Register(router *mux.Router) {
	// Task workbook download
	router.HandleFunc(
		"/v2/exports/tasks",
		e.exportTasks,
	).Methods(http.MethodGet)

	// Focus workbook download
	router.HandleFunc(
		"/v2/exports/focus",
		e.exportFocus,
	).Methods(http.MethodGet)
}

func (e *endpoints) exportTasks(w http.ResponseWriter, r *http.Request) {
	e.ServeFileRequest(
		restmachinery.FileRequest{
			W: w,
			R: r,
			EndpointLogic: func() (restmachinery.FileResponse, error) {
				download, err := e.service.ExportTasks(r.Context())
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

func (e *endpoints) exportFocus(w http.ResponseWriter, r *http.Request) {
	e.ServeFileRequest(
		restmachinery.FileRequest{
			W: w,
			R: r,
			EndpointLogic: func() (restmachinery.FileResponse, error) {
				download, err := e.service.ExportFocus(r.Context())
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
