package rest

import (
	"net/http"

	"github.com/2977094657/DidaAPI/apiserver/internal/restmachinery"
	"github.com/2977094657/DidaAPI/apiserver/internal/users"
	"github.com/gorilla/mux"
)

type endpoints struct {
	*restmachinery.BaseEndpoints
	service users.Service
}

// NewEndpoints returns the user account routes.
func NewEndpoints(
	baseEndpoints *restmachinery.BaseEndpoints,
	service users.Service,
) restmachinery.Endpoints {
	return &endpoints{
		BaseEndpoints: baseEndpoints,
		service:       service,
	}
}

func (e *endpoints) Register(router *mux.Router) {
	// User profile
	router.HandleFunc(
		"/v2/user/profile",
		e.profile,
	).Methods(http.MethodGet)
}

func (e *endpoints) profile(w http.ResponseWriter, r *http.Request) {
	e.ServeRequest(
		restmachinery.InboundRequest{
			W: w,
			R: r,
			EndpointLogic: func() (interface{}, error) {
				return e.service.Profile(r.Context())
			},
			SuccessCode: http.StatusOK,
		},
	)
}
