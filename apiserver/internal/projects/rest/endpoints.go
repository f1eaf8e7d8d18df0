package rest

import (
	"net/http"

	"github.com/2977094657/DidaAPI/apiserver/internal/projects"
	"github.com/2977094657/DidaAPI/apiserver/internal/restmachinery"
	"github.com/gorilla/mux"
)

type endpoints struct {
	*restmachinery.BaseEndpoints
	service projects.Service
}

// NewEndpoints returns the project retrieval routes.
func NewEndpoints(
	baseEndpoints *restmachinery.BaseEndpoints,
	service projects.Service,
) restmachinery.Endpoints {
	return &endpoints{
		BaseEndpoints: baseEndpoints,
		service:       service,
	}
}

func (e *endpoints) Register(router *mux.Router) {
	// Project list
	router.HandleFunc(
		"/v2/projects",
		e.list,
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
